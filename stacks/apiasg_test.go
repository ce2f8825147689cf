package stacks_test

import (
	"time"

	"github.com/acmecorp/acme-infra/stacks"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("api-asg stack", func() {

	cfg := stacks.DefaultConfig()
	cfg.LaunchDate = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := templateDoc(stacks.APIAutoScaling(cfg))
	params := doc["Parameters"].(map[string]interface{})

	It("should carry the standard template header", func() {
		Expect(doc["Description"]).To(Equal("Auto Scaling group for ACME."))
	})

	Describe("the parameters", func() {

		It("should require an AMI and an instance profile", func() {
			Expect(params["APIAMIID"].(map[string]interface{})["Type"]).To(Equal("AWS::EC2::Image::Id"))
			profile := params["APIInstanceIAMProfile"].(map[string]interface{})
			Expect(profile["Type"]).To(Equal("String"))
			Expect(profile["MinLength"]).To(BeNumerically("==", 1))
		})

		It("should require the upstream stack names", func() {
			Expect(params).To(HaveKey("VPCStackName"))
			Expect(params).To(HaveKey("LoadBalancerStackName"))
		})

	})

	Describe("the launch configuration", func() {

		props := propsOf(doc, "LaunchConfiguration")

		It("should stamp the name with the launch date", func() {
			Expect(props["LaunchConfigurationName"]).To(Equal(stackNamed("lc-20190101")))
		})

		It("should boot from a 30GB standard root volume", func() {
			Expect(props["BlockDeviceMappings"]).To(Equal([]interface{}{
				map[string]interface{}{
					"DeviceName": "/dev/sda1",
					"Ebs": map[string]interface{}{
						"VolumeSize": float64(30),
						"VolumeType": "standard",
					},
				},
			}))
			Expect(props["EbsOptimized"]).To(Equal(false))
			Expect(props["InstanceMonitoring"]).To(Equal(false))
			Expect(props["AssociatePublicIpAddress"]).To(Equal(true))
		})

		It("should take instance settings from the parameters", func() {
			Expect(props["ImageId"]).To(Equal(refOf("APIAMIID")))
			Expect(props["InstanceType"]).To(Equal(refOf("InstanceType")))
			Expect(props["KeyName"]).To(Equal(refOf("KeyName")))
			Expect(props["IamInstanceProfile"]).To(Equal(refOf("APIInstanceIAMProfile")))
			Expect(props["SecurityGroups"]).To(Equal([]interface{}{refOf("SecurityGroupName")}))
		})

		It("should bootstrap the instance through CodeDeploy", func() {
			userData := props["UserData"].(map[string]interface{})
			join := userData["Fn::Base64"].(map[string]interface{})["Fn::Join"].([]interface{})
			Expect(join[0]).To(Equal(""))
			lines := join[1].([]interface{})
			Expect(lines[0]).To(Equal("#!/bin/bash\n"))
			Expect(lines).To(ContainElement("aws-codedeploy-us-west-2.s3.amazonaws.com/latest/install\n"))
			Expect(lines).To(ContainElement(" --application-name acme-ui"))
			Expect(lines).To(ContainElement(" --application-name acme-api-framework"))
			Expect(lines).To(ContainElement(" --deployment-group-name staging"))
		})

	})

	Describe("the auto-scaling group", func() {

		props := propsOf(doc, "APIAutoScalingGroup")

		It("should hold the group at three instances", func() {
			Expect(props["MinSize"]).To(Equal("3"))
			Expect(props["MaxSize"]).To(Equal("3"))
			Expect(props["DesiredCapacity"]).To(Equal("3"))
		})

		It("should spread across the first three availability zones", func() {
			Expect(props["AvailabilityZones"]).To(Equal([]interface{}{azOf(0), azOf(1), azOf(2)}))
			Expect(props["VPCZoneIdentifier"]).To(Equal([]interface{}{
				importOf("VPCStackName", "publicsubnet1"),
				importOf("VPCStackName", "publicsubnet2"),
				importOf("VPCStackName", "publicsubnet3"),
			}))
		})

		It("should register with the imported API target group", func() {
			Expect(props["TargetGroupARNs"]).To(Equal([]interface{}{
				importOf("LoadBalancerStackName", "api-tg"),
			}))
		})

		It("should use EC2 health checks with a launch grace period", func() {
			Expect(props["HealthCheckType"]).To(Equal("EC2"))
			Expect(props["HealthCheckGracePeriod"]).To(BeNumerically("==", 300))
		})

		It("should retire the newest instances first", func() {
			Expect(props["TerminationPolicies"]).To(Equal([]interface{}{"NewestInstance"}))
		})

		It("should propagate its tags to launched instances", func() {
			tags := props["Tags"].([]interface{})
			Expect(tags).To(HaveLen(2))
			for _, tag := range tags {
				Expect(tag.(map[string]interface{})["PropagateAtLaunch"]).To(Equal(true))
			}
		})

	})

	It("should not export anything", func() {
		Expect(doc).NotTo(HaveKey("Outputs"))
	})

	Describe("rendering", func() {

		It("should produce identical output for identical input", func() {
			first, err := stacks.APIAutoScaling(cfg).YAML()
			Expect(err).NotTo(HaveOccurred())
			second, err := stacks.APIAutoScaling(cfg).YAML()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(second)).To(Equal(string(first)))
		})

	})

})
