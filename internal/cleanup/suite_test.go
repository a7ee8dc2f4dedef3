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

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

func newTestScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	_ = corev1.AddToScheme(scheme)
	scheme.AddKnownTypeWithName(ServiceBindingGVK, &unstructured.Unstructured{})
	scheme.AddKnownTypeWithName(ServiceBindingListGVK, &unstructured.UnstructuredList{})
	return scheme
}

func newBinding(namespace, name, secretName string) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{}
	obj.SetGroupVersionKind(ServiceBindingGVK)
	obj.SetNamespace(namespace)
	obj.SetName(name)
	_ = unstructured.SetNestedField(obj.Object, secretName, "spec", "secretName")
	return obj
}

func newSecret(namespace, name string, owners ...metav1.OwnerReference) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Namespace:       namespace,
			Name:            name,
			OwnerReferences: owners,
		},
		Data: map[string][]byte{
			"password": []byte("secret"),
		},
	}
}

// listInOrder serves the given bindings in a fixed order,
// the fake object tracker does not guarantee one.
func listInOrder(bindings ...*unstructured.Unstructured) func(context.Context, client.WithWatch, client.ObjectList, ...client.ListOption) error {
	return func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) error {
		ul, ok := list.(*unstructured.UnstructuredList)
		if !ok || ul.GroupVersionKind() != ServiceBindingListGVK {
			return c.List(ctx, list, opts...)
		}
		for _, b := range bindings {
			ul.Items = append(ul.Items, *b.DeepCopy())
		}
		return nil
	}
}
