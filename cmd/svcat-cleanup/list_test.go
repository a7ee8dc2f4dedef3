/*
Copyright 2024 Stefan Prodan

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"testing"

	. "github.com/onsi/gomega"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func TestList(t *testing.T) {
	newClient := func() {
		testClient = fake.NewClientBuilder().
			WithScheme(newTestScheme()).
			WithObjects(
				newBinding("apps", "db", "db-credentials"),
				newBinding("apps", "cache", "cache-credentials"),
				newSecret("apps", "db-credentials", svcatOwner("db"), otherOwner("o1")),
			).
			Build()
	}

	t.Run("prints a table", func(t *testing.T) {
		g := NewWithT(t)
		newClient()

		output, err := executeCommand("list -n apps")
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(output).To(ContainSubstring("STALE OWNERS"))
		g.Expect(output).To(ContainSubstring("db-credentials"))
		g.Expect(output).To(ContainSubstring("NotFound"))
	})

	t.Run("prints yaml", func(t *testing.T) {
		g := NewWithT(t)
		newClient()

		output, err := executeCommand("list -o yaml")
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(output).To(ContainSubstring("secretName: db-credentials"))
		g.Expect(output).To(ContainSubstring("staleOwners: 1"))
		g.Expect(output).To(ContainSubstring("owners: 2"))
		g.Expect(output).To(ContainSubstring("status: NotFound"))
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		g := NewWithT(t)
		newClient()

		_, err := executeCommand("list -o json")
		g.Expect(err).To(HaveOccurred())
		g.Expect(err.Error()).To(ContainSubstring("unsupported output format"))
	})
}
