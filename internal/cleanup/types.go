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
	"fmt"

	"github.com/fluxcd/pkg/ssa"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

const (
	// ServiceCatalogGroup is the API group of the deprecated service-catalog.
	ServiceCatalogGroup = "servicecatalog.k8s.io"

	// ServiceCatalogAPIVersion is the owner-reference apiVersion stripped from Secrets.
	ServiceCatalogAPIVersion = ServiceCatalogGroup + "/v1beta1"

	// ServiceBindingKind is the kind of the service-catalog binding resource.
	ServiceBindingKind = "ServiceBinding"
)

var (
	// ServiceBindingGVK identifies the service-catalog binding resource.
	ServiceBindingGVK = schema.GroupVersionKind{
		Group:   ServiceCatalogGroup,
		Version: "v1beta1",
		Kind:    ServiceBindingKind,
	}

	// ServiceBindingListGVK identifies the list of service-catalog bindings.
	ServiceBindingListGVK = ServiceBindingGVK.GroupVersion().WithKind(ServiceBindingKind + "List")
)

// Binding holds the ServiceBinding fields needed to locate its Secret.
type Binding struct {
	Name       string `json:"name"`
	Namespace  string `json:"namespace"`
	SecretName string `json:"secretName"`
}

// String returns the binding in the 'ServiceBinding/namespace/name' format.
func (b Binding) String() string {
	return fmt.Sprintf("%s/%s/%s", ServiceBindingKind, b.Namespace, b.Name)
}

// SecretRef returns the Secret in the 'Secret/namespace/name' format.
func (b Binding) SecretRef() string {
	return fmt.Sprintf("Secret/%s/%s", b.Namespace, b.SecretName)
}

// Entry is the outcome of processing one binding.
type Entry struct {
	Binding Binding
	Action  ssa.Action

	// Before and After hold the Secret owner references
	// as found in-cluster and as sent in the patch.
	Before []metav1.OwnerReference
	After  []metav1.OwnerReference

	// Removed is the number of service-catalog owner references dropped.
	Removed int

	Err error
}

// Result summarises a cleanup run.
type Result struct {
	// Bindings is the number of ServiceBindings found in the cluster.
	Bindings int

	Entries []Entry

	// Halted is set when the run stopped at a Secret without owner references.
	Halted   bool
	HaltedAt *Binding
}

// Patched returns the number of Secrets that had owner references removed.
func (r *Result) Patched() int {
	return r.count(ssa.ConfiguredAction)
}

// Skipped returns the number of bindings skipped because their Secret
// was missing or the binding itself was invalid.
func (r *Result) Skipped() int {
	return r.count(ssa.SkippedAction)
}

// Failed returns the number of bindings that hit an unexpected error.
func (r *Result) Failed() int {
	return r.count(ssa.UnknownAction)
}

func (r *Result) count(action ssa.Action) int {
	n := 0
	for _, e := range r.Entries {
		if e.Action == action {
			n++
		}
	}
	return n
}
