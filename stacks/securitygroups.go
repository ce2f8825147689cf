package stacks

import (
	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/awslabs/goformation/v7/cloudformation/ec2"
)

// SecurityGroups builds the security-groups stack: one group for the public
// load balancer listeners, one for the API instances behind it, and one for
// the database/broker instances reachable only from the API tier. All three
// live in the VPC imported from the stack named by VPCStackName.
func SecurityGroups(cfg Config) *cloudformation.Template {
	t := newTemplate("EC2 Security groups for ACME.")

	t.Parameters[ParamVPCStackName] = stackNameParameter(
		"Name of an active CloudFormation stack that contains the networking " +
			"resources, such as the vpc, subnet and security group, that will " +
			"be used in this stack.")

	vpcID := VPCID.ImportFromPtr(ParamVPCStackName)

	ingress := []ec2.SecurityGroup_Ingress{
		tcpIngressFromCIDR("Enable HTTP access via port 80", 80, "0.0.0.0/0"),
		tcpIngressFromCIDR("Enable HTTPS access via port 443", 443, "0.0.0.0/0"),
	}
	t.Resources["LoadBalancerSecurityGroup"] = &ec2.SecurityGroup{
		GroupName:            cloudformation.String(stackJoin("alb-security-group")),
		GroupDescription:     "Enable traffic to load balancer listeners.",
		SecurityGroupIngress: ingress,
		VpcId:                vpcID,
		Tags:                 appTags(stackJoin("alb-security-group")),
	}

	// SSH only from the jumpservers, HTTP only from the load balancer.
	ingress = nil
	for _, cidr := range cfg.JumpserverCIDRs {
		ingress = append(ingress, tcpIngressFromCIDR("Enable SSH access via port 22", 22, cidr))
	}
	ingress = append(ingress,
		tcpIngressFromGroup("Enable HTTP port access from ALB.", 80,
			cloudformation.Ref("LoadBalancerSecurityGroup")))
	t.Resources["APIInstanceSecurityGroup"] = &ec2.SecurityGroup{
		GroupName:            cloudformation.String(stackJoin("api-security-group")),
		GroupDescription:     "Security group for API server.",
		SecurityGroupIngress: ingress,
		VpcId:                vpcID,
		Tags:                 appTags(stackJoin("api-security-group")),
	}

	// The broker port stays open to the whole VPC range so load balancer
	// health checks can reach it.
	t.Resources["DBBrokerInstanceSecurityGroup"] = &ec2.SecurityGroup{
		GroupName:        cloudformation.String(stackJoin("db-broker-security-group")),
		GroupDescription: "Enable access to db/broker instance from API.",
		SecurityGroupIngress: []ec2.SecurityGroup_Ingress{
			tcpIngressFromGroup("Enable SSH access via port 22", 22,
				cloudformation.Ref("APIInstanceSecurityGroup")),
			tcpIngressFromGroup("Enable db access via port 27017", 27017,
				cloudformation.Ref("APIInstanceSecurityGroup")),
			tcpIngressFromCIDR("Enable broker access via port 5672", 5672,
				VPCCIDR.ImportFrom(ParamVPCStackName)),
		},
		VpcId: vpcID,
		Tags:  appTags(stackJoin("db-broker-security-group")),
	}

	t.Outputs["LoadBalancerSecurityGroupID"] = output("ALB Security Group ID",
		cloudformation.Ref("LoadBalancerSecurityGroup"), LoadBalancerSecurityGroup)
	t.Outputs["APISecurityGroupID"] = output("API Security Group ID",
		cloudformation.Ref("APIInstanceSecurityGroup"), APISecurityGroup)
	t.Outputs["DatabaseBrokerSecurityGroupID"] = output("Database/Broker Security Group ID",
		cloudformation.Ref("DBBrokerInstanceSecurityGroup"), DatabaseBrokerSecurityGroup)

	return t
}

func tcpIngressFromCIDR(description string, port int, cidr string) ec2.SecurityGroup_Ingress {
	return ec2.SecurityGroup_Ingress{
		Description: cloudformation.String(description),
		IpProtocol:  "tcp",
		FromPort:    cloudformation.Int(port),
		ToPort:      cloudformation.Int(port),
		CidrIp:      cloudformation.String(cidr),
	}
}

func tcpIngressFromGroup(description string, port int, groupID string) ec2.SecurityGroup_Ingress {
	return ec2.SecurityGroup_Ingress{
		Description:           cloudformation.String(description),
		IpProtocol:            "tcp",
		FromPort:              cloudformation.Int(port),
		ToPort:                cloudformation.Int(port),
		SourceSecurityGroupId: cloudformation.String(groupID),
	}
}
