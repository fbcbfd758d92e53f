package coapmsg_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestCoapmsg(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Coapmsg Suite")
}
