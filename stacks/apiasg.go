package stacks

import (
	"time"

	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/awslabs/goformation/v7/cloudformation/autoscaling"
)

// APIAutoScaling builds the api-asg stack: a launch configuration that
// bootstraps API instances through CodeDeploy, and an auto-scaling group
// pinned at three instances behind the API target group of the
// load-balancers stack.
//
// The launch configuration name carries a YYYYMMDD token so that a
// regenerated template rolls the group onto a fresh configuration. It is the
// only part of any template that varies between runs.
func APIAutoScaling(cfg Config) *cloudformation.Template {
	t := newTemplate("Auto Scaling group for ACME.")

	t.Parameters[ParamAPIAMIID] = cloudformation.Parameter{
		Type:        "AWS::EC2::Image::Id",
		Description: cloudformation.String("AMI ID to be used for launching API server."),
	}
	t.Parameters[ParamAPIInstanceIAMProfile] = cloudformation.Parameter{
		Type:        "String",
		Description: cloudformation.String("IAM Instance profile for API server."),
		MinLength:   cloudformation.Int(1),
	}
	t.Parameters[ParamInstanceType] = instanceTypeParameter("API server EC2 instance type")
	t.Parameters[ParamKeyName] = keyNameParameter()
	t.Parameters[ParamSecurityGroupName] = securityGroupParameter(
		"Name of security group that will be attached to the API instance.")
	t.Parameters[ParamVPCStackName] = stackNameParameter(
		"Name of an active CloudFormation stack that contains the networking " +
			"resources, such as the vpc, subnet and security group, that will " +
			"be used in this stack.")
	t.Parameters[ParamLoadBalancerStackName] = stackNameParameter(
		"Name of an active CloudFormation stack that contains load balancers, " +
			"that will be used in this stack.")

	date := cfg.LaunchDate
	if date.IsZero() {
		date = time.Now()
	}

	t.Resources["LaunchConfiguration"] = &autoscaling.LaunchConfiguration{
		AssociatePublicIpAddress: cloudformation.Bool(true),
		BlockDeviceMappings: []autoscaling.LaunchConfiguration_BlockDeviceMapping{
			{
				DeviceName: "/dev/sda1",
				Ebs: &autoscaling.LaunchConfiguration_BlockDevice{
					VolumeSize: cloudformation.Int(30),
					VolumeType: cloudformation.String("standard"),
				},
			},
		},
		EbsOptimized:            cloudformation.Bool(false),
		IamInstanceProfile:      cloudformation.RefPtr(ParamAPIInstanceIAMProfile),
		ImageId:                 cloudformation.Ref(ParamAPIAMIID),
		InstanceMonitoring:      cloudformation.Bool(false),
		InstanceType:            cloudformation.Ref(ParamInstanceType),
		KeyName:                 cloudformation.RefPtr(ParamKeyName),
		LaunchConfigurationName: cloudformation.JoinPtr("-", []string{refStackName, "lc-" + date.Format("20060102")}),
		SecurityGroups:          []string{cloudformation.Ref(ParamSecurityGroupName)},
		UserData:                cloudformation.Base64Ptr(cloudformation.Join("", bootstrapScript(cfg))),
	}

	t.Resources["APIAutoScalingGroup"] = &autoscaling.AutoScalingGroup{
		AutoScalingGroupName: cloudformation.RefPtr("AWS::StackName"),
		AvailabilityZones: []string{
			availabilityZone(0),
			availabilityZone(1),
			availabilityZone(2),
		},
		DesiredCapacity:         cloudformation.String("3"),
		HealthCheckGracePeriod:  cloudformation.Int(300),
		HealthCheckType:         cloudformation.String("EC2"),
		LaunchConfigurationName: cloudformation.RefPtr("LaunchConfiguration"),
		MaxSize:                 "3",
		MinSize:                 "3",
		TargetGroupARNs: []string{
			APITargetGroup.ImportFrom(ParamLoadBalancerStackName),
		},
		TerminationPolicies: []string{"NewestInstance"},
		Tags: []autoscaling.AutoScalingGroup_TagProperty{
			{Key: "Application", Value: refStackName, PropagateAtLaunch: true},
			{Key: "Name", Value: stackJoin("autoscaled"), PropagateAtLaunch: true},
		},
		VPCZoneIdentifier: []string{
			PublicSubnet1.ImportFrom(ParamVPCStackName),
			PublicSubnet2.ImportFrom(ParamVPCStackName),
			PublicSubnet3.ImportFrom(ParamVPCStackName),
		},
	}

	return t
}

// bootstrapScript is the cloud-init payload for fresh API instances: install
// the CodeDeploy agent, then pull the current UI and API revisions onto the
// instance. The sleeps keep the two deployments from racing each other
// during scale-out.
func bootstrapScript(cfg Config) []string {
	return []string{
		"#!/bin/bash\n",
		"apt-get -y update\n",
		"apt-get -y install ruby\n",
		"apt-get -y install wget\n",
		"cd /home/ubuntu\n",
		"wget https://",
		"aws-codedeploy-" + cfg.DeployRegion + ".s3.amazonaws.com/latest/install\n",
		"chmod +x ./install\n",
		"./install auto\n",
		"service codedeploy-agent start\n\n",
		"# Deploy ACME UI.\n",
		"aws deploy create-deployment --region " + cfg.DeployRegion,
		" --application-name " + cfg.UIApplication,
		" --deployment-group-name " + cfg.DeploymentGroup,
		" --update-outdated-instances-only\n\n",
		"sleep 600\n\n",
		"# Deploy API framework.\n",
		"aws deploy create-deployment --region " + cfg.DeployRegion,
		" --application-name " + cfg.APIApplication,
		" --deployment-group-name " + cfg.DeploymentGroup,
		" --update-outdated-instances-only\n\n",
		"sleep 600\n\n",
	}
}
