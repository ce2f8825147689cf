package stacks

import (
	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/awslabs/goformation/v7/cloudformation/ec2"
)

// CIDR blocks for the VPC and its subnets.
//
//	10.10.0.0/16        VPC
//	├── 10.10.1.0/24    PublicSubnet1   (az 0)
//	├── 10.10.2.0/24    PublicSubnet2   (az 1)
//	├── 10.10.3.0/24    PublicSubnet3   (az 2)
//	├── 10.10.128.0/24  PrivateSubnet1  (az 0)
//	├── 10.10.129.0/24  PrivateSubnet2  (az 1)
//	└── 10.10.130.0/24  PrivateSubnet3  (az 2)
const (
	vpcCIDRBlock = "10.10.0.0/16"

	publicSubnet1CIDR  = "10.10.1.0/24"
	publicSubnet2CIDR  = "10.10.2.0/24"
	publicSubnet3CIDR  = "10.10.3.0/24"
	privateSubnet1CIDR = "10.10.128.0/24"
	privateSubnet2CIDR = "10.10.129.0/24"
	privateSubnet3CIDR = "10.10.130.0/24"
)

// Network builds the VPC stack: three public and three private subnets
// spread over the region's first three availability zones, an internet
// gateway for the public side, a NAT gateway for the private side, network
// ACLs, and DHCP options. Subnet and VPC IDs are exported for every other
// stack to import.
func Network(_ Config) *cloudformation.Template {
	t := newTemplate("VPC for hosting ACME Corp application.")

	t.Mappings["SubnetConfig"] = map[string]interface{}{
		"VPC":            map[string]interface{}{"CIDR": vpcCIDRBlock},
		"PublicSubnet1":  map[string]interface{}{"CIDR": publicSubnet1CIDR},
		"PublicSubnet2":  map[string]interface{}{"CIDR": publicSubnet2CIDR},
		"PublicSubnet3":  map[string]interface{}{"CIDR": publicSubnet3CIDR},
		"PrivateSubnet1": map[string]interface{}{"CIDR": privateSubnet1CIDR},
		"PrivateSubnet2": map[string]interface{}{"CIDR": privateSubnet2CIDR},
		"PrivateSubnet3": map[string]interface{}{"CIDR": privateSubnet3CIDR},
	}

	t.Resources["VPC"] = &ec2.VPC{
		CidrBlock:          cloudformation.FindInMapPtr("SubnetConfig", "VPC", "CIDR"),
		EnableDnsSupport:   cloudformation.Bool(true),
		EnableDnsHostnames: cloudformation.Bool(true),
		Tags:               appTags(refStackName),
	}

	addSubnet(t, "PublicSubnet1", "public-subnet-1", 0, true)
	addSubnet(t, "PublicSubnet2", "public-subnet-2", 1, true)
	addSubnet(t, "PublicSubnet3", "public-subnet-3", 2, true)
	addSubnet(t, "PrivateSubnet1", "private-subnet-1", 0, false)
	addSubnet(t, "PrivateSubnet2", "private-subnet-2", 1, false)
	addSubnet(t, "PrivateSubnet3", "private-subnet-3", 2, false)

	t.Resources["InternetGateway"] = &ec2.InternetGateway{
		Tags: appTags(""),
	}
	t.Resources["AttachGateway"] = &ec2.VPCGatewayAttachment{
		VpcId:             cloudformation.Ref("VPC"),
		InternetGatewayId: cloudformation.RefPtr("InternetGateway"),
	}

	t.Resources["PublicRouteTable"] = &ec2.RouteTable{
		VpcId: cloudformation.Ref("VPC"),
		Tags:  appTags(stackJoin("public-rt")),
	}
	t.Resources["PrivateRouteTable"] = &ec2.RouteTable{
		VpcId: cloudformation.Ref("VPC"),
		Tags:  appTags(stackJoin("private-rt")),
	}

	// The route must not be created until the gateway is attached.
	routeToInternet := &ec2.Route{
		RouteTableId:         cloudformation.Ref("PublicRouteTable"),
		GatewayId:            cloudformation.RefPtr("InternetGateway"),
		DestinationCidrBlock: cloudformation.String("0.0.0.0/0"),
	}
	routeToInternet.AWSCloudFormationDependsOn = []string{"AttachGateway"}
	t.Resources["RouteToInternet"] = routeToInternet

	t.Resources["NatEip"] = &ec2.EIP{
		Domain: cloudformation.String("vpc"),
	}
	t.Resources["NATGateway"] = &ec2.NatGateway{
		AllocationId: cloudformation.GetAttPtr("NatEip", "AllocationId"),
		SubnetId:     cloudformation.Ref("PublicSubnet1"),
		Tags:         appTags(""),
	}
	t.Resources["NATRoute"] = &ec2.Route{
		RouteTableId:         cloudformation.Ref("PrivateRouteTable"),
		NatGatewayId:         cloudformation.RefPtr("NATGateway"),
		DestinationCidrBlock: cloudformation.String("0.0.0.0/0"),
	}

	for _, subnet := range []string{"PublicSubnet1", "PublicSubnet2", "PublicSubnet3"} {
		t.Resources[subnet+"RouteTableAssociation"] = &ec2.SubnetRouteTableAssociation{
			SubnetId:     cloudformation.Ref(subnet),
			RouteTableId: cloudformation.Ref("PublicRouteTable"),
		}
	}
	for _, subnet := range []string{"PrivateSubnet1", "PrivateSubnet2", "PrivateSubnet3"} {
		t.Resources[subnet+"RouteTableAssociation"] = &ec2.SubnetRouteTableAssociation{
			SubnetId:     cloudformation.Ref(subnet),
			RouteTableId: cloudformation.Ref("PrivateRouteTable"),
		}
	}

	t.Resources["PublicNetworkAcl"] = &ec2.NetworkAcl{
		VpcId: cloudformation.Ref("VPC"),
		Tags:  appTags(stackJoin("public-nacl")),
	}
	t.Resources["PrivateNetworkAcl"] = &ec2.NetworkAcl{
		VpcId: cloudformation.Ref("VPC"),
		Tags:  appTags(stackJoin("private-nacl")),
	}

	// Public subnets pass everything both ways. Private subnets only accept
	// traffic originating inside the VPC.
	t.Resources["InboundPublicNetworkAclEntry"] = aclEntry("PublicNetworkAcl", 100, false, "0.0.0.0/0")
	t.Resources["OutboundPublicNetworkAclEntry"] = aclEntry("PublicNetworkAcl", 100, true, "0.0.0.0/0")
	t.Resources["InboundPrivateNetworkAclEntry"] = aclEntry("PrivateNetworkAcl", 110, false, vpcCIDRBlock)
	t.Resources["OutboundPrivateNetworkAclEntry"] = aclEntry("PrivateNetworkAcl", 110, true, "0.0.0.0/0")

	for _, subnet := range []string{"PublicSubnet1", "PublicSubnet2", "PublicSubnet3"} {
		t.Resources[subnet+"NetworkACLAssociation"] = &ec2.SubnetNetworkAclAssociation{
			SubnetId:     cloudformation.Ref(subnet),
			NetworkAclId: cloudformation.Ref("PublicNetworkAcl"),
		}
	}
	for _, subnet := range []string{"PrivateSubnet1", "PrivateSubnet2", "PrivateSubnet3"} {
		t.Resources[subnet+"NetworkACLAssociation"] = &ec2.SubnetNetworkAclAssociation{
			SubnetId:     cloudformation.Ref(subnet),
			NetworkAclId: cloudformation.Ref("PrivateNetworkAcl"),
		}
	}

	t.Resources["DHCPOptions"] = &ec2.DHCPOptions{
		DomainName:        cloudformation.JoinPtr(".", []string{refRegion, "compute.internal"}),
		DomainNameServers: []string{"AmazonProvidedDNS"},
		Tags:              appTags(""),
	}
	t.Resources["DHCPOptionsAssociation"] = &ec2.VPCDHCPOptionsAssociation{
		DhcpOptionsId: cloudformation.Ref("DHCPOptions"),
		VpcId:         cloudformation.Ref("VPC"),
	}

	t.Outputs["VPCID"] = output("VPC ID", cloudformation.Ref("VPC"), VPCID)
	t.Outputs["VPCCIDR"] = output("VPC CIDR Block", vpcCIDRBlock, VPCCIDR)
	t.Outputs["PublicSubnet1ID"] = output("Public Subnet 1 ID", cloudformation.Ref("PublicSubnet1"), PublicSubnet1)
	t.Outputs["PublicSubnet2ID"] = output("Public Subnet 2 ID", cloudformation.Ref("PublicSubnet2"), PublicSubnet2)
	t.Outputs["PublicSubnet3ID"] = output("Public Subnet 3 ID", cloudformation.Ref("PublicSubnet3"), PublicSubnet3)
	t.Outputs["PrivateSubnet1ID"] = output("Private Subnet 1 ID", cloudformation.Ref("PrivateSubnet1"), PrivateSubnet1)
	t.Outputs["PrivateSubnet2ID"] = output("Private Subnet 2 ID", cloudformation.Ref("PrivateSubnet2"), PrivateSubnet2)
	t.Outputs["PrivateSubnet3ID"] = output("Private Subnet 3 ID", cloudformation.Ref("PrivateSubnet3"), PrivateSubnet3)

	return t
}

// addSubnet declares one subnet in the az-th availability zone, pulling its
// CIDR from the SubnetConfig mapping under the subnet's own logical ID.
func addSubnet(t *cloudformation.Template, logicalID, nameSuffix string, az int, public bool) {
	t.Resources[logicalID] = &ec2.Subnet{
		AvailabilityZone:    cloudformation.String(availabilityZone(az)),
		CidrBlock:           cloudformation.FindInMapPtr("SubnetConfig", logicalID, "CIDR"),
		VpcId:               cloudformation.Ref("VPC"),
		MapPublicIpOnLaunch: cloudformation.Bool(public),
		Tags:                appTags(stackJoin(nameSuffix)),
	}
}

func aclEntry(aclID string, rule int, egress bool, cidr string) *ec2.NetworkAclEntry {
	return &ec2.NetworkAclEntry{
		NetworkAclId: cloudformation.Ref(aclID),
		RuleNumber:   rule,
		Protocol:     -1,
		RuleAction:   "allow",
		Egress:       cloudformation.Bool(egress),
		CidrBlock:    cloudformation.String(cidr),
	}
}

// output pairs a value with its cross-stack export name.
func output(description string, value interface{}, key ExportKey) cloudformation.Output {
	return cloudformation.Output{
		Value:       value,
		Description: cloudformation.String(description),
		Export:      key.Export(),
	}
}
