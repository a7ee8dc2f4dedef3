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

package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fluxcd/pkg/ssa"
	. "github.com/onsi/gomega"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func TestNewConsoleLogger(t *testing.T) {
	g := NewWithT(t)

	buf := new(bytes.Buffer)
	log := NewConsoleLogger(buf, false, false)
	log.Info("found 2 service binding(s)")
	log.Error(errors.New("boom"), "unexpected error")

	g.Expect(buf.String()).To(ContainSubstring("found 2 service binding(s)"))
	g.Expect(buf.String()).To(ContainSubstring("boom"))
}

func TestColorizeJoin(t *testing.T) {
	g := NewWithT(t)
	_ = NewConsoleLogger(new(bytes.Buffer), false, false)

	obj := &unstructured.Unstructured{}
	obj.SetAPIVersion("servicecatalog.k8s.io/v1beta1")
	obj.SetKind("ServiceBinding")
	obj.SetNamespace("apps")
	obj.SetName("db")

	g.Expect(ColorizeJoin(obj, ssa.ConfiguredAction, DryRunServer)).
		To(Equal("ServiceBinding/apps/db configured (server dry run)"))
	g.Expect(ColorizeBinding("apps", "db")).To(Equal("b:apps/db"))
	g.Expect(ColorizeAny(errors.New("failed"))).To(Equal("failed"))
}
