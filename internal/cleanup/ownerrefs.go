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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// IsServiceCatalogOwner reports whether the owner reference points at the
// service-catalog API group version.
func IsServiceCatalogOwner(ref metav1.OwnerReference) bool {
	return ref.APIVersion == ServiceCatalogAPIVersion
}

// HasServiceCatalogOwner reports whether any of the owner references
// points at the service-catalog API group version.
func HasServiceCatalogOwner(refs []metav1.OwnerReference) bool {
	return CountServiceCatalogOwners(refs) > 0
}

// CountServiceCatalogOwners returns the number of service-catalog owner references.
func CountServiceCatalogOwners(refs []metav1.OwnerReference) int {
	n := 0
	for _, ref := range refs {
		if IsServiceCatalogOwner(ref) {
			n++
		}
	}
	return n
}

// FilterOwnerReferences returns a new slice holding the owner references
// that do not point at service-catalog, in their original order,
// together with the number of entries that were dropped.
// The input slice is not modified.
func FilterOwnerReferences(refs []metav1.OwnerReference) ([]metav1.OwnerReference, int) {
	kept := make([]metav1.OwnerReference, 0, len(refs))
	for _, ref := range refs {
		if IsServiceCatalogOwner(ref) {
			continue
		}
		kept = append(kept, ref)
	}
	return kept, len(refs) - len(kept)
}
