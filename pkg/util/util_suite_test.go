// SPDX-FileCopyrightText: 2026 Quilt Data contributors
//
// SPDX-License-Identifier: Apache-2.0

package util_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/keshava/quilt/pkg/util"
)

func TestUtil(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Util Suite")
}

var _ = Describe("MarshalNoHTMLEscape", func() {

	It("should not escape html characters", func() {
		data, err := util.MarshalNoHTMLEscape(map[string]string{"text": "a<b&c>d"})
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal("{\"text\":\"a<b&c>d\"}\n"))
	})
})

var _ = Describe("StringArrayContains", func() {

	It("should find exact elements only", func() {
		exts := []string{".csv", ".txt"}
		Expect(util.StringArrayContains(exts, ".csv")).To(BeTrue())
		Expect(util.StringArrayContains(exts, ".CSV")).To(BeFalse())
		Expect(util.StringArrayContains(nil, ".csv")).To(BeFalse())
	})
})

var _ = Describe("TimeBudget", func() {

	It("should count down from the given budget", func() {
		budget := util.NewTimeBudget(time.Hour)
		remaining := budget.Remaining()

		Expect(remaining).To(BeNumerically(">", 59*time.Minute))
		Expect(remaining).To(BeNumerically("<=", time.Hour))
	})

	It("should never report a negative remainder", func() {
		budget := util.NewTimeBudget(-time.Second)
		Expect(budget.Remaining()).To(BeZero())
	})
})
