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
	"fmt"

	"github.com/fluxcd/pkg/ssa"
	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// ErrBindingsNotServed is returned by ListBindings when the cluster
// does not serve the service-catalog ServiceBinding API.
var ErrBindingsNotServed = errors.New("service-catalog ServiceBinding API is not served")

// Runner strips the service-catalog owner references from the Secrets
// produced by ServiceBindings.
type Runner struct {
	// Client is used to list bindings, read and patch Secrets.
	Client client.Client

	// Namespace restricts the run to a single namespace, all namespaces when empty.
	Namespace string

	// DryRun sends the patches as server-side dry runs.
	DryRun bool
}

// NewRunner returns a Runner for the given client and namespace.
func NewRunner(c client.Client, namespace string) *Runner {
	return &Runner{
		Client:    c,
		Namespace: namespace,
	}
}

// Run processes the ServiceBindings one at a time.
//
// Missing Secrets and invalid bindings are skipped. The run stops at the
// first Secret that has no owner references, in which case Result.Halted is set
// and no error is returned. Any other failure is logged, the run moves on to
// the next binding and the failures are returned together once all bindings
// were visited.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	log := logr.FromContextOrDiscard(ctx)
	result := &Result{}

	objects, err := ListBindings(ctx, r.Client, r.Namespace)
	if err != nil {
		if errors.Is(err, ErrBindingsNotServed) {
			log.Info("no service bindings to clean up, the service-catalog API is not served")
			return result, nil
		}
		return result, err
	}

	result.Bindings = len(objects)
	log.Info(fmt.Sprintf("found %d service binding(s)", len(objects)))

	var errs []error
	for _, obj := range objects {
		binding, err := BindingFrom(obj)
		if err != nil {
			log.Error(err, "invalid binding, skipping", "binding", binding.String())
			result.Entries = append(result.Entries, Entry{Binding: binding, Action: ssa.SkippedAction, Err: err})
			continue
		}

		log.Info(fmt.Sprintf("processing %s from %s", binding.SecretRef(), binding))

		secret := &corev1.Secret{}
		key := client.ObjectKey{Namespace: binding.Namespace, Name: binding.SecretName}
		if err := r.Client.Get(ctx, key, secret); err != nil {
			entry := r.failed(binding, err)
			result.Entries = append(result.Entries, entry)
			if entry.Action == ssa.SkippedAction {
				log.Info(fmt.Sprintf("%s not found, skipping", binding.SecretRef()))
				continue
			}
			log.Error(err, "unexpected error", "binding", binding.String())
			errs = append(errs, entry.Err)
			continue
		}

		refs := secret.GetOwnerReferences()
		if len(refs) == 0 {
			log.Info(fmt.Sprintf("no owner references found on %s, stopping", binding.SecretRef()))
			result.Halted = true
			result.HaltedAt = &binding
			break
		}

		entry, err := r.cleanSecret(ctx, binding, secret)
		result.Entries = append(result.Entries, entry)
		if err != nil {
			log.Error(err, "unexpected error", "binding", binding.String())
			errs = append(errs, err)
			continue
		}

		switch entry.Action {
		case ssa.ConfiguredAction:
			log.Info(fmt.Sprintf("%s %s, removed %d service-catalog owner reference(s)",
				binding.SecretRef(), r.actionString(entry.Action), entry.Removed))
		default:
			log.Info(fmt.Sprintf("%s %s", binding.SecretRef(), entry.Action))
		}
	}

	return result, utilerrors.NewAggregate(errs)
}

// cleanSecret drops the service-catalog owner references from the Secret
// and merge-patches it. Secrets without such references are left untouched.
func (r *Runner) cleanSecret(ctx context.Context, binding Binding, secret *corev1.Secret) (Entry, error) {
	before := secret.GetOwnerReferences()
	after, removed := FilterOwnerReferences(before)

	entry := Entry{
		Binding: binding,
		Action:  ssa.UnchangedAction,
		Before:  before,
		After:   after,
		Removed: removed,
	}
	if removed == 0 {
		return entry, nil
	}

	patch := client.MergeFrom(secret.DeepCopy())
	secret.SetOwnerReferences(after)

	var opts []client.PatchOption
	if r.DryRun {
		opts = append(opts, client.DryRunAll)
	}

	if err := r.Client.Patch(ctx, secret, patch, opts...); err != nil {
		e := newError(binding, fmt.Errorf("patching %s failed: %w", binding.SecretRef(), err))
		entry.Action = ssa.UnknownAction
		entry.Err = e
		return entry, e
	}

	entry.Action = ssa.ConfiguredAction
	return entry, nil
}

func (r *Runner) failed(binding Binding, err error) Entry {
	e := newError(binding, err)
	action := ssa.UnknownAction
	if e.Kind == KindNotFound {
		action = ssa.SkippedAction
	}
	return Entry{Binding: binding, Action: action, Err: e}
}

func (r *Runner) actionString(action ssa.Action) string {
	if r.DryRun {
		return fmt.Sprintf("%s (server dry run)", action)
	}
	return action.String()
}
