package stacks

import (
	"fmt"

	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/awslabs/goformation/v7/cloudformation/ec2"
)

// Database builds the db stack: three standalone EC2 instances carrying the
// database and message broker, one per private subnet of the VPC stack.
// Instance IDs are exported for the load-balancers stack to register as
// targets.
func Database(_ Config) *cloudformation.Template {
	t := newTemplate("Setup DB servers for ACME.")

	t.Parameters[ParamVPCStackName] = stackNameParameter(
		"Name of an active CloudFormation stack that contains the networking " +
			"resources, such as the vpc, subnet and security group, that will " +
			"be used in this stack.")
	t.Parameters[ParamKeyName] = keyNameParameter()
	t.Parameters[ParamDBAMI] = cloudformation.Parameter{
		Type:                  "AWS::EC2::Image::Id",
		Description:           cloudformation.String("Name of existing AMI to create the DB instance"),
		ConstraintDescription: cloudformation.String("must be the name of an existing EC2 AMI."),
	}
	t.Parameters[ParamInstanceType] = instanceTypeParameter("Database EC2 instance type")
	t.Parameters[ParamSecurityGroupName] = securityGroupParameter(
		"Name of security group that will be attached to the DB instance.")

	privateSubnets := []ExportKey{PrivateSubnet1, PrivateSubnet2, PrivateSubnet3}
	for i, subnet := range privateSubnets {
		logicalID := fmt.Sprintf("DBServer%d", i+1)
		suffix := fmt.Sprintf("instance-%d", i+1)
		t.Resources[logicalID] = &ec2.Instance{
			ImageId:          cloudformation.RefPtr(ParamDBAMI),
			InstanceType:     cloudformation.RefPtr(ParamInstanceType),
			KeyName:          cloudformation.RefPtr(ParamKeyName),
			SubnetId:         subnet.ImportFromPtr(ParamVPCStackName),
			SecurityGroupIds: []string{cloudformation.Ref(ParamSecurityGroupName)},
			Tags:             appTags(stackJoin(suffix)),
		}
	}

	t.Outputs["DBServer1"] = output("DB Instance ID", cloudformation.Ref("DBServer1"), DBInstance1)
	t.Outputs["DBServer2"] = output("DB Instance ID", cloudformation.Ref("DBServer2"), DBInstance2)
	t.Outputs["DBServer3"] = output("DB Instance ID", cloudformation.Ref("DBServer3"), DBInstance3)

	return t
}
