package main

import (
	"os"
	"path/filepath"

	"github.com/acmecorp/acme-infra/stacks"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("loadConfig", func() {

	Context("with no settings file", func() {

		It("should return the built-in defaults", func() {
			cfg, err := loadConfig("")
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(stacks.DefaultConfig()))
		})

	})

	Context("with a settings file", func() {

		var filename string

		BeforeEach(func() {
			dir, err := os.MkdirTemp("", "acme-infra")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(os.RemoveAll, dir)

			filename = filepath.Join(dir, "settings.yaml")
			settings := "" +
				"deploy_region: eu-central-1\n" +
				"app_hostnames:\n" +
				"  - app.example.org\n"
			Expect(os.WriteFile(filename, []byte(settings), 0644)).To(Succeed())
		})

		It("should merge the file over the defaults", func() {
			cfg, err := loadConfig(filename)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.DeployRegion).To(Equal("eu-central-1"))
			Expect(cfg.AppHostnames).To(Equal([]string{"app.example.org"}))
		})

		It("should leave unset fields at their defaults", func() {
			cfg, err := loadConfig(filename)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.UIApplication).To(Equal("acme-ui"))
			Expect(cfg.DeploymentGroup).To(Equal("staging"))
		})

	})

	Context("with a missing settings file", func() {

		It("should return an error naming the file", func() {
			_, err := loadConfig("does-not-exist.yaml")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("does-not-exist.yaml"))
		})

	})

})
