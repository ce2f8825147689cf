package stacks

import (
	"fmt"

	"github.com/awslabs/goformation/v7/cloudformation"
	"github.com/awslabs/goformation/v7/cloudformation/elasticloadbalancingv2"
)

// LoadBalancers builds the load-balancers stack: an internet-facing
// application load balancer fronting the API auto-scaling group, and an
// internal network load balancer in front of the message brokers on the db
// instances. HTTP traffic for the application hostnames is redirected to
// HTTPS; everything else gets a fixed 404.
func LoadBalancers(cfg Config) *cloudformation.Template {
	t := newTemplate("Load balancers for ACME.")

	t.Parameters[ParamVPCStackName] = stackNameParameter(
		"Name of an active CloudFormation stack that contains the networking " +
			"resources, such as the vpc and network subnet and that will be " +
			"used in this stack.")
	t.Parameters[ParamSecurityGroupName] = securityGroupParameter(
		"Name of security group that will be attached to the Application Load Balancer.")
	t.Parameters[ParamDBBrokerStackName] = stackNameParameter(
		"Name of an active CloudFormation stack that contains DB-Broker " +
			"instances, that will be used in this stack.")
	t.Parameters[ParamAPIListenerCert] = cloudformation.Parameter{
		Type:        "String",
		Description: cloudformation.String("ARN of the certificate to be used in API listener."),
		MinLength:   cloudformation.Int(1),
		MaxLength:   cloudformation.Int(255),
	}

	publicSubnets := []string{
		PublicSubnet1.ImportFrom(ParamVPCStackName),
		PublicSubnet2.ImportFrom(ParamVPCStackName),
		PublicSubnet3.ImportFrom(ParamVPCStackName),
	}
	vpcID := VPCID.ImportFromPtr(ParamVPCStackName)

	t.Resources["APILoadBalancer"] = &elasticloadbalancingv2.LoadBalancer{
		Name:          cloudformation.String(stackJoin("api")),
		IpAddressType: cloudformation.String("ipv4"),
		LoadBalancerAttributes: []elasticloadbalancingv2.LoadBalancer_LoadBalancerAttribute{
			lbAttribute("deletion_protection.enabled", "true"),
		},
		Scheme:         cloudformation.String("internet-facing"),
		SecurityGroups: []string{cloudformation.Ref(ParamSecurityGroupName)},
		Subnets:        publicSubnets,
		Type:           cloudformation.String("application"),
		Tags:           appTags(""),
	}

	t.Resources["MQLoadBalancer"] = &elasticloadbalancingv2.LoadBalancer{
		Name:          cloudformation.String(stackJoin("mq")),
		IpAddressType: cloudformation.String("ipv4"),
		LoadBalancerAttributes: []elasticloadbalancingv2.LoadBalancer_LoadBalancerAttribute{
			lbAttribute("deletion_protection.enabled", "true"),
			lbAttribute("load_balancing.cross_zone.enabled", "true"),
		},
		Scheme:  cloudformation.String("internal"),
		Subnets: publicSubnets,
		Type:    cloudformation.String("network"),
		Tags:    appTags(""),
	}

	t.Resources["APITargetGroup"] = &elasticloadbalancingv2.TargetGroup{
		Name:                       cloudformation.String(stackJoin("api-tg")),
		Port:                       cloudformation.Int(80),
		Protocol:                   cloudformation.String("HTTP"),
		HealthCheckEnabled:         cloudformation.Bool(true),
		HealthCheckProtocol:        cloudformation.String("HTTP"),
		HealthCheckPath:            cloudformation.String("/greetings"),
		HealthCheckPort:            cloudformation.String("traffic-port"),
		HealthyThresholdCount:      cloudformation.Int(2),
		UnhealthyThresholdCount:    cloudformation.Int(2),
		HealthCheckTimeoutSeconds:  cloudformation.Int(2),
		HealthCheckIntervalSeconds: cloudformation.Int(5),
		Matcher: &elasticloadbalancingv2.TargetGroup_Matcher{
			HttpCode: cloudformation.String("200"),
		},
		TargetType: cloudformation.String("instance"),
		VpcId:      vpcID,
		Tags:       appTags(""),
	}

	t.Resources["MQTargetGroup"] = &elasticloadbalancingv2.TargetGroup{
		Name:                       cloudformation.String(stackJoin("mq-tg")),
		Port:                       cloudformation.Int(5672),
		Protocol:                   cloudformation.String("TCP"),
		HealthCheckEnabled:         cloudformation.Bool(true),
		HealthCheckProtocol:        cloudformation.String("TCP"),
		HealthCheckPort:            cloudformation.String("traffic-port"),
		HealthyThresholdCount:      cloudformation.Int(3),
		UnhealthyThresholdCount:    cloudformation.Int(3),
		HealthCheckTimeoutSeconds:  cloudformation.Int(10),
		HealthCheckIntervalSeconds: cloudformation.Int(30),
		Targets:                    brokerTargets(5672),
		TargetType:                 cloudformation.String("instance"),
		VpcId:                      vpcID,
		Tags:                       appTags(""),
	}

	// The RabbitMQ management plugin listens on plain HTTP.
	t.Resources["MQUITargetGroup"] = &elasticloadbalancingv2.TargetGroup{
		Name:                       cloudformation.String(stackJoin("mq-ui-tg")),
		Port:                       cloudformation.Int(80),
		Protocol:                   cloudformation.String("HTTP"),
		HealthCheckEnabled:         cloudformation.Bool(true),
		HealthCheckProtocol:        cloudformation.String("HTTP"),
		HealthCheckPort:            cloudformation.String("traffic-port"),
		HealthyThresholdCount:      cloudformation.Int(3),
		UnhealthyThresholdCount:    cloudformation.Int(3),
		HealthCheckTimeoutSeconds:  cloudformation.Int(10),
		HealthCheckIntervalSeconds: cloudformation.Int(30),
		Targets:                    brokerTargets(80),
		TargetType:                 cloudformation.String("instance"),
		VpcId:                      vpcID,
		Tags:                       appTags(""),
	}

	// Listeners default to a 404 so only the listener rules below expose
	// anything. Logical ID spelling is frozen; renaming a listener would
	// replace it on the next stack update.
	t.Resources["APIHTTPListner"] = &elasticloadbalancingv2.Listener{
		Port:            cloudformation.Int(80),
		Protocol:        cloudformation.String("HTTP"),
		LoadBalancerArn: cloudformation.Ref("APILoadBalancer"),
		DefaultActions:  []elasticloadbalancingv2.Listener_Action{fixedNotFound()},
	}

	t.Resources["APIHTTPSListner"] = &elasticloadbalancingv2.Listener{
		Port:     cloudformation.Int(443),
		Protocol: cloudformation.String("HTTPS"),
		Certificates: []elasticloadbalancingv2.Listener_Certificate{
			{CertificateArn: cloudformation.RefPtr(ParamAPIListenerCert)},
		},
		SslPolicy:       cloudformation.String("ELBSecurityPolicy-TLS-1-1-2017-01"),
		LoadBalancerArn: cloudformation.Ref("APILoadBalancer"),
		DefaultActions:  []elasticloadbalancingv2.Listener_Action{fixedNotFound()},
	}

	t.Resources["MQListner"] = &elasticloadbalancingv2.Listener{
		Port:            cloudformation.Int(5672),
		Protocol:        cloudformation.String("TCP"),
		LoadBalancerArn: cloudformation.Ref("MQLoadBalancer"),
		DefaultActions: []elasticloadbalancingv2.Listener_Action{
			{
				Type:           "forward",
				TargetGroupArn: cloudformation.RefPtr("MQTargetGroup"),
			},
		},
	}

	t.Resources["APIHTTPListenerRule"] = &elasticloadbalancingv2.ListenerRule{
		ListenerArn: cloudformation.RefPtr("APIHTTPListner"),
		Conditions:  hostHeaderConditions(cfg.AppHostnames),
		Actions: []elasticloadbalancingv2.ListenerRule_Action{
			{
				Type: "redirect",
				RedirectConfig: &elasticloadbalancingv2.ListenerRule_RedirectConfig{
					StatusCode: "HTTP_301",
					Protocol:   cloudformation.String("HTTPS"),
					Port:       cloudformation.String("443"),
				},
			},
		},
		Priority: 1,
	}

	t.Resources["APIHTTPSRule"] = &elasticloadbalancingv2.ListenerRule{
		ListenerArn: cloudformation.RefPtr("APIHTTPSListner"),
		Conditions:  hostHeaderConditions(cfg.AppHostnames),
		Actions: []elasticloadbalancingv2.ListenerRule_Action{
			{
				Type:           "forward",
				TargetGroupArn: cloudformation.RefPtr("MQUITargetGroup"),
			},
		},
		Priority: 2,
	}

	t.Outputs["APILoadBalancer"] = output("API Load Balancer ID",
		cloudformation.Ref("APILoadBalancer"), APILoadBalancer)
	t.Outputs["APITargetGroup"] = output("API Target Group Name",
		cloudformation.Ref("APITargetGroup"), APITargetGroup)
	t.Outputs["MQTargetGroup"] = output("MQ Target Group Name",
		cloudformation.Ref("MQTargetGroup"), MQTargetGroup)
	t.Outputs["MQUITargetGroup"] = output("MQ UI Target Group Name",
		cloudformation.Ref("MQUITargetGroup"), MQUITargetGroup)
	t.Outputs["APILoadBalancerDNS"] = output("API Load Balancer DNS name",
		cloudformation.GetAtt("APILoadBalancer", "DNSName"), APILoadBalancerDNS)
	t.Outputs["MQLoadBalancerDNS"] = output("MQ Load Balancer DNS name",
		cloudformation.GetAtt("MQLoadBalancer", "DNSName"), MQLoadBalancerDNS)

	return t
}

func lbAttribute(key, value string) elasticloadbalancingv2.LoadBalancer_LoadBalancerAttribute {
	return elasticloadbalancingv2.LoadBalancer_LoadBalancerAttribute{
		Key:   cloudformation.String(key),
		Value: cloudformation.String(value),
	}
}

// brokerTargets registers the three db stack instances on the given port.
func brokerTargets(port int) []elasticloadbalancingv2.TargetGroup_TargetDescription {
	targets := make([]elasticloadbalancingv2.TargetGroup_TargetDescription, 0, 3)
	for i := 1; i <= 3; i++ {
		key := ExportKey(fmt.Sprintf("instance-%d", i))
		targets = append(targets, elasticloadbalancingv2.TargetGroup_TargetDescription{
			Id:   key.ImportFrom(ParamDBBrokerStackName),
			Port: cloudformation.Int(port),
		})
	}
	return targets
}

func fixedNotFound() elasticloadbalancingv2.Listener_Action {
	return elasticloadbalancingv2.Listener_Action{
		Type: "fixed-response",
		FixedResponseConfig: &elasticloadbalancingv2.Listener_FixedResponseConfig{
			ContentType: cloudformation.String("text/plain"),
			MessageBody: cloudformation.String("Page Not Found"),
			StatusCode:  "404",
		},
	}
}

func hostHeaderConditions(hostnames []string) []elasticloadbalancingv2.ListenerRule_RuleCondition {
	return []elasticloadbalancingv2.ListenerRule_RuleCondition{
		{
			Field:  cloudformation.String("host-header"),
			Values: hostnames,
		},
	}
}
