package schema_test

import (
	"testing"

	"github.com/sqldef/jsondef/testutil"
	"github.com/sqldef/jsondef/util"
)

func TestApply(t *testing.T) {
	tests, err := testutil.ReadTests("testdata/*.yml")
	if err != nil {
		t.Fatal(err)
	}

	for name, test := range util.CanonicalMapIter(tests) {
		t.Run(name, func(t *testing.T) {
			testutil.RunTest(t, test)
		})
	}
}
