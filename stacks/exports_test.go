package stacks_test

import (
	"time"

	"github.com/acmecorp/acme-infra/stacks"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// collectImportKeys walks a decoded template and gathers the trailing key of
// every Fn::ImportValue built as Join["-", [Ref <param>, <key>]].
func collectImportKeys(node interface{}, keys map[string]bool) {
	switch v := node.(type) {
	case map[string]interface{}:
		if imp, ok := v["Fn::ImportValue"]; ok && len(v) == 1 {
			if join, ok := imp.(map[string]interface{}); ok {
				if args, ok := join["Fn::Join"].([]interface{}); ok && len(args) == 2 {
					parts := args[1].([]interface{})
					if key, ok := parts[len(parts)-1].(string); ok {
						keys[key] = true
					}
				}
			}
			return
		}
		for _, child := range v {
			collectImportKeys(child, keys)
		}
	case []interface{}:
		for _, child := range v {
			collectImportKeys(child, keys)
		}
	}
}

// collectRefs walks a decoded template and gathers every {"Ref": name}.
func collectRefs(node interface{}, refs map[string]bool) {
	switch v := node.(type) {
	case map[string]interface{}:
		if name, ok := v["Ref"].(string); ok && len(v) == 1 {
			refs[name] = true
			return
		}
		for _, child := range v {
			collectRefs(child, refs)
		}
	case []interface{}:
		for _, child := range v {
			collectRefs(child, refs)
		}
	}
}

var _ = Describe("stack registry", func() {

	cfg := stacks.DefaultConfig()
	cfg.LaunchDate = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

	Describe("All", func() {

		It("should list the stacks in dependency order", func() {
			var names []string
			for _, stack := range stacks.All() {
				names = append(names, stack.Name)
			}
			Expect(names).To(Equal([]string{"vpc", "security-groups", "db", "load-balancers", "api-asg"}))
		})

		It("should give each stack its own template file", func() {
			seen := map[string]bool{}
			for _, stack := range stacks.All() {
				Expect(stack.Filename).To(HaveSuffix(".yaml"))
				Expect(seen).NotTo(HaveKey(stack.Filename))
				seen[stack.Filename] = true
			}
		})

	})

	Describe("Find", func() {

		It("should resolve every registered name", func() {
			for _, stack := range stacks.All() {
				found, err := stacks.Find(stack.Name)
				Expect(err).NotTo(HaveOccurred())
				Expect(found.Name).To(Equal(stack.Name))
			}
		})

		It("should reject unknown names", func() {
			_, err := stacks.Find("warehouse")
			Expect(err).To(MatchError(`unknown stack "warehouse"`))
		})

	})

	Describe("the cross-stack wiring", func() {

		It("should only import keys that some stack exports", func() {
			exported := map[string]bool{}
			for _, stack := range stacks.All() {
				for _, key := range stacks.Keys(stack.Name) {
					exported[string(key)] = true
				}
			}

			for _, stack := range stacks.All() {
				imported := map[string]bool{}
				collectImportKeys(templateDoc(stack.Build(cfg)), imported)
				for key := range imported {
					Expect(exported).To(HaveKey(key),
						"%s imports %q which no stack exports", stack.Name, key)
				}
			}
		})

		It("should reference every declared parameter", func() {
			for _, stack := range stacks.All() {
				doc := templateDoc(stack.Build(cfg))
				params, ok := doc["Parameters"].(map[string]interface{})
				if !ok {
					continue
				}
				refs := map[string]bool{}
				collectRefs(doc["Resources"], refs)
				collectRefs(doc["Outputs"], refs)
				for name := range params {
					Expect(refs).To(HaveKey(name),
						"%s declares parameter %q but never references it", stack.Name, name)
				}
			}
		})

	})

	Describe("Keys", func() {

		It("should cover every stack that exports", func() {
			Expect(stacks.Keys("vpc")).To(HaveLen(8))
			Expect(stacks.Keys("security-groups")).To(HaveLen(3))
			Expect(stacks.Keys("db")).To(HaveLen(3))
			Expect(stacks.Keys("load-balancers")).To(HaveLen(6))
			Expect(stacks.Keys("api-asg")).To(BeEmpty())
		})

	})

})
