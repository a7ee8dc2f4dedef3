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
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// ListBindings returns the ServiceBindings found in the given namespace,
// or in all namespaces when the namespace is empty.
func ListBindings(ctx context.Context, c client.Reader, namespace string) ([]*unstructured.Unstructured, error) {
	list := &unstructured.UnstructuredList{}
	list.SetGroupVersionKind(ServiceBindingListGVK)

	var opts []client.ListOption
	if namespace != "" {
		opts = append(opts, client.InNamespace(namespace))
	}

	if err := c.List(ctx, list, opts...); err != nil {
		if meta.IsNoMatchError(err) {
			return nil, fmt.Errorf("%w: %v", ErrBindingsNotServed, err)
		}
		return nil, fmt.Errorf("listing %s failed: %w", ServiceBindingGVK.GroupKind(), err)
	}

	bindings := make([]*unstructured.Unstructured, 0, len(list.Items))
	for i := range list.Items {
		bindings = append(bindings, &list.Items[i])
	}
	return bindings, nil
}

// BindingFrom extracts the binding name, namespace and target Secret name.
// An InvalidBinding error is returned when spec.secretName is missing or not a string;
// the returned Binding still carries the name and namespace.
func BindingFrom(obj *unstructured.Unstructured) (Binding, error) {
	b := Binding{
		Name:      obj.GetName(),
		Namespace: obj.GetNamespace(),
	}

	secretName, found, err := unstructured.NestedString(obj.Object, "spec", "secretName")
	if err != nil {
		return b, &Error{Kind: KindInvalidBinding, Binding: b, Err: err}
	}
	if !found || secretName == "" {
		return b, &Error{Kind: KindInvalidBinding, Binding: b, Err: fmt.Errorf("spec.secretName is not set")}
	}

	b.SecretName = secretName
	return b, nil
}
