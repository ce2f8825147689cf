package stacks

import (
	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/awslabs/goformation/v7/cloudformation/tags"
)

// Template parameter names shared across stacks.
const (
	ParamVPCStackName          = "VPCStackName"
	ParamDBBrokerStackName     = "DBBrokerStackName"
	ParamLoadBalancerStackName = "LoadBalancerStackName"
	ParamSecurityGroupName     = "SecurityGroupName"
	ParamKeyName               = "KeyName"
	ParamInstanceType          = "InstanceType"
	ParamAPIAMIID              = "APIAMIID"
	ParamAPIInstanceIAMProfile = "APIInstanceIAMProfile"
	ParamAPIListenerCert       = "APIListenerCert"
	ParamDBAMI                 = "DBAMI"
)

// AWS pseudo parameter references.
var (
	refStackName = cloudformation.Ref("AWS::StackName")
	refRegion    = cloudformation.Ref("AWS::Region")
)

// stackJoin prefixes the given parts with the deploying stack's name,
// e.g. stackJoin("public-subnet-1") renders as <stack>-public-subnet-1.
func stackJoin(parts ...string) string {
	return cloudformation.Join("-", append([]string{refStackName}, parts...))
}

// availabilityZone picks the i-th AZ of the deployment region.
func availabilityZone(i int) string {
	return cloudformation.Select(i, cloudformation.GetAZs(refRegion))
}

// appTags returns the Application tag every ACME resource carries, plus a
// Name tag when one is given.
func appTags(name string) []tags.Tag {
	ts := []tags.Tag{{Key: "Application", Value: refStackName}}
	if name != "" {
		ts = append(ts, tags.Tag{Key: "Name", Value: name})
	}
	return ts
}

// stackNameParameter declares a parameter holding the name of another active
// CloudFormation stack, constrained to names CloudFormation itself accepts.
func stackNameParameter(description string) cloudformation.Parameter {
	return cloudformation.Parameter{
		Type:           "String",
		Description:    cloudformation.String(description),
		MinLength:      cloudformation.Int(1),
		MaxLength:      cloudformation.Int(255),
		AllowedPattern: cloudformation.String("^[a-zA-Z][-a-zA-Z0-9]*$"),
	}
}

func keyNameParameter() cloudformation.Parameter {
	return cloudformation.Parameter{
		Type: "AWS::EC2::KeyPair::KeyName",
		Description: cloudformation.String("Name of an existing EC2 KeyPair to enable " +
			"SSH access to the instance"),
		ConstraintDescription: cloudformation.String("must be the name of an existing EC2 KeyPair."),
	}
}

func securityGroupParameter(description string) cloudformation.Parameter {
	return cloudformation.Parameter{
		Type:        "AWS::EC2::SecurityGroup::Id",
		Description: cloudformation.String(description),
	}
}

func instanceTypeParameter(description string) cloudformation.Parameter {
	return cloudformation.Parameter{
		Type:                  "String",
		Description:           cloudformation.String(description),
		Default:               "m3.medium",
		AllowedValues:         allowedValues(ec2InstanceTypes),
		ConstraintDescription: cloudformation.String("must be a valid EC2 instance type."),
	}
}

func allowedValues(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// ec2InstanceTypes are the instance types the API and DB stacks accept,
// current-generation families first, previous-generation last.
var ec2InstanceTypes = []string{
	"a1.medium", "a1.large", "a1.xlarge", "a1.2xlarge",
	"a1.4xlarge", "m4.large", "m4.xlarge", "m4.2xlarge",
	"m4.4xlarge", "m4.10xlarge", "m4.16xlarge", "m5.large",
	"m5.xlarge", "m5.2xlarge", "m5.4xlarge", "m5.12xlarge",
	"m5.24xlarge", "m5a.large", "m5a.xlarge", "m5a.2xlarge",
	"m5a.4xlarge", "m5a.12xlarge", "m5a.24xlarge",
	"m5d.large", "m5d.xlarge", "m5d.2xlarge", "m5d.4xlarge",
	"m5d.12xlarge", "m5d.24xlarge", "t2.nano", "t2.micro",
	"t2.small", "t2.medium", "t2.large", "t2.xlarge",
	"t2.2xlarge", "t3.nano", "t3.micro", "t3.small",
	"t3.medium", "t3.large", "t3.xlarge", "t3.2xlarge",
	"c4.large", "c4.xlarge", "c4.2xlarge", "c4.4xlarge",
	"c4.8xlarge", "c5.large", "c5.xlarge", "c5.2xlarge",
	"c5.4xlarge", "c5.9xlarge", "c5.18xlarge", "c5d.xlarge",
	"c5d.2xlarge", "c5d.4xlarge", "c5d.9xlarge",
	"c5d.18xlarge", "c5n.large", "c5n.xlarge",
	"c5n.2xlarge", "c5n.4xlarge", "c5n.9xlarge",
	"c5n.18xlarge", "r4.large", "r4.xlarge", "r4.2xlarge",
	"r4.4xlarge", "r4.8xlarge", "r4.16xlarge", "r5.large",
	"r5.xlarge", "r5.2xlarge", "r5.4xlarge", "r5.12xlarge",
	"r5.24xlarge", "r5a.large", "r5a.xlarge", "r5a.2xlarge",
	"r5a.4xlarge", "r5a.12xlarge", "r5a.24xlarge",
	"r5d.large", "r5d.xlarge", "r5d.2xlarge", "r5d.4xlarge",
	"r5d.12xlarge", "r5d.24xlarge", "x1.16xlarge",
	"x1.32xlarge", "x1e.xlarge", "x1e.2xlarge",
	"x1e.4xlarge", "x1e.8xlarge", "x1e.16xlarge",
	"x1e.32xlarge", "z1d.large", "z1d.xlarge",
	"z1d.2xlarge", "z1d.3xlarge", "z1d.6xlarge",
	"z1d.12xlarge", "d2.xlarge", "d2.2xlarge", "d2.4xlarge",
	"d2.8xlarge", "h1.2xlarge", "h1.4xlarge", "h1.8xlarge",
	"h1.16xlarge", "i3.large", "i3.xlarge", "i3.2xlarge",
	"i3.4xlarge", "i3.8xlarge", "i3.16xlarge", "f1.2xlarge",
	"f1.4xlarge", "f1.16xlarge", "g3s.xlarge", "g3.4xlarge",
	"g3.8xlarge", "g3.16xlarge", "p2.xlarge", "p2.8xlarge",
	"p2.16xlarge", "p3.2xlarge", "p3.8xlarge",
	"p3.16xlarge", "p3dn.24xlarge",
	"m1.small", "m1.medium", "m1.large", "m1.xlarge",
	"m3.medium", "m3.large", "m3.xlarge", "m3.2xlarge",
	"c1.medium", "c1.xlarge", "cc2.8xlarge", "c3.large",
	"c3.xlarge", "c3.2xlarge", "c3.4xlarge", "c3.8xlarge",
	"m2.xlarge", "m2.2xlarge", "m2.4xlarge", "cr1.8xlarge",
	"r3.large", "r3.xlarge", "r3.2xlarge", "r3.4xlarge",
	"r3.8xlarge", "hs1.8xlarge", "i2.xlarge", "i2.2xlarge",
	"i2.4xlarge", "i2.8xlarge", "g2.2xlarge", "g2.8xlarge",
	"t1.micro",
}
