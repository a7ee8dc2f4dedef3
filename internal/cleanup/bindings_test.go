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

package cleanup

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"
)

func TestBindingFrom(t *testing.T) {
	t.Run("reads name namespace and secret name", func(t *testing.T) {
		g := NewWithT(t)
		b, err := BindingFrom(newBinding("apps", "db", "db-credentials"))
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(b).To(Equal(Binding{Name: "db", Namespace: "apps", SecretName: "db-credentials"}))
		g.Expect(b.String()).To(Equal("ServiceBinding/apps/db"))
		g.Expect(b.SecretRef()).To(Equal("Secret/apps/db-credentials"))
	})

	t.Run("missing secret name is an invalid binding", func(t *testing.T) {
		g := NewWithT(t)
		obj := newBinding("apps", "db", "")
		unstructured.RemoveNestedField(obj.Object, "spec", "secretName")

		b, err := BindingFrom(obj)
		g.Expect(err).To(HaveOccurred())
		g.Expect(KindOf(err)).To(Equal(KindInvalidBinding))
		g.Expect(b.Name).To(Equal("db"))
	})

	t.Run("mistyped secret name is an invalid binding", func(t *testing.T) {
		g := NewWithT(t)
		obj := newBinding("apps", "db", "")
		g.Expect(unstructured.SetNestedField(obj.Object, int64(42), "spec", "secretName")).To(Succeed())

		_, err := BindingFrom(obj)
		g.Expect(err).To(HaveOccurred())
		g.Expect(KindOf(err)).To(Equal(KindInvalidBinding))
		g.Expect(err.Error()).To(ContainSubstring("ServiceBinding/apps/db is invalid"))
	})
}

func TestListBindings(t *testing.T) {
	ctx := context.Background()
	c := fake.NewClientBuilder().
		WithScheme(newTestScheme()).
		WithObjects(
			newBinding("team-a", "db", "db-credentials"),
			newBinding("team-b", "cache", "cache-credentials"),
		).
		Build()

	t.Run("lists all namespaces", func(t *testing.T) {
		g := NewWithT(t)
		objects, err := ListBindings(ctx, c, "")
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(2))
	})

	t.Run("lists a single namespace", func(t *testing.T) {
		g := NewWithT(t)
		objects, err := ListBindings(ctx, c, "team-b")
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(objects).To(HaveLen(1))
		g.Expect(objects[0].GetName()).To(Equal("cache"))
	})

	t.Run("reports an API that is not served", func(t *testing.T) {
		g := NewWithT(t)
		nc := fake.NewClientBuilder().
			WithScheme(newTestScheme()).
			WithInterceptorFuncs(interceptor.Funcs{
				List: func(_ context.Context, _ client.WithWatch, _ client.ObjectList, _ ...client.ListOption) error {
					return &meta.NoKindMatchError{
						GroupKind:        ServiceBindingGVK.GroupKind(),
						SearchedVersions: []string{ServiceBindingGVK.Version},
					}
				},
			}).
			Build()

		_, err := ListBindings(ctx, nc, "")
		g.Expect(err).To(HaveOccurred())
		g.Expect(errors.Is(err, ErrBindingsNotServed)).To(BeTrue())
	})
}
