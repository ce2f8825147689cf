package stacks

import "github.com/awslabs/goformation/v7/cloudformation"

// ExportKey is the suffix a stack appends to its own name when it exports a
// value, and the suffix a consumer appends to the producing stack's name
// when it imports that value back. Routing both sides through the same
// constant is what keeps the cross-stack wiring honest; a key with no
// exporter cannot be imported by accident.
type ExportKey string

// Published by the vpc stack.
const (
	VPCID          ExportKey = "id"
	VPCCIDR        ExportKey = "cidr"
	PublicSubnet1  ExportKey = "publicsubnet1"
	PublicSubnet2  ExportKey = "publicsubnet2"
	PublicSubnet3  ExportKey = "publicsubnet3"
	PrivateSubnet1 ExportKey = "privatesubnet1"
	PrivateSubnet2 ExportKey = "privatesubnet2"
	PrivateSubnet3 ExportKey = "privatesubnet3"
)

// Published by the security-groups stack.
const (
	LoadBalancerSecurityGroup   ExportKey = "loadbalancer"
	APISecurityGroup            ExportKey = "api"
	DatabaseBrokerSecurityGroup ExportKey = "database"
)

// Published by the db stack.
const (
	DBInstance1 ExportKey = "instance-1"
	DBInstance2 ExportKey = "instance-2"
	DBInstance3 ExportKey = "instance-3"
)

// Published by the load-balancers stack.
const (
	APILoadBalancer    ExportKey = "api"
	APITargetGroup     ExportKey = "api-tg"
	MQTargetGroup      ExportKey = "mq-tg"
	MQUITargetGroup    ExportKey = "mq-ui-tg"
	APILoadBalancerDNS ExportKey = "api-dns"
	MQLoadBalancerDNS  ExportKey = "mq-dns"
)

// Keys returns every key the named stack exports. The vpc and db suites use
// it to assert the published surface; Exported in the registry tests uses it
// to cross-check imports.
func Keys(stackName string) []ExportKey {
	switch stackName {
	case "vpc":
		return []ExportKey{VPCID, VPCCIDR,
			PublicSubnet1, PublicSubnet2, PublicSubnet3,
			PrivateSubnet1, PrivateSubnet2, PrivateSubnet3}
	case "security-groups":
		return []ExportKey{LoadBalancerSecurityGroup, APISecurityGroup, DatabaseBrokerSecurityGroup}
	case "db":
		return []ExportKey{DBInstance1, DBInstance2, DBInstance3}
	case "load-balancers":
		return []ExportKey{APILoadBalancer, APITargetGroup, MQTargetGroup,
			MQUITargetGroup, APILoadBalancerDNS, MQLoadBalancerDNS}
	}
	return nil
}

// Export names the key for whichever stack instance is being deployed.
// Deployed as "acme-test", the vpc stack exports VPCID as "acme-test-id".
func (k ExportKey) Export() *cloudformation.Export {
	return &cloudformation.Export{
		Name: cloudformation.Sub("${AWS::StackName}-" + string(k)),
	}
}

// ImportFrom resolves the key against the stack instance named by the given
// template parameter, producing an Fn::ImportValue that is evaluated at
// deploy time.
func (k ExportKey) ImportFrom(param string) string {
	return cloudformation.ImportValue(
		cloudformation.Join("-", []string{cloudformation.Ref(param), string(k)}),
	)
}

// ImportFromPtr is ImportFrom for the optional fields in goformation's
// resource structs.
func (k ExportKey) ImportFromPtr(param string) *string {
	v := k.ImportFrom(param)
	return &v
}
