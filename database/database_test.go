package database

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratorConfig(t *testing.T) {
	config, err := parseGeneratorConfig([]byte(`
target_tables: |
  users
  posts_\d+
skip_tables: tmp_.*
check_collate: true
enable_drop: true
dump_concurrency: -1
`))
	require.NoError(t, err)
	assert.Equal(t, GeneratorConfig{
		TargetTables:    []string{"users", `posts_\d+`},
		SkipTables:      []string{"tmp_.*"},
		CheckCollate:    true,
		EnableDrop:      true,
		DumpConcurrency: -1,
	}, config)

	config, err = parseGeneratorConfig([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, GeneratorConfig{}, config)

	_, err = parseGeneratorConfig([]byte("algorithm: inplace"))
	assert.Error(t, err)
}

func TestMergeGeneratorConfigs(t *testing.T) {
	config := MergeGeneratorConfigs([]GeneratorConfig{
		{TargetTables: []string{"users"}, SkipTables: []string{"tmp"}, CheckCollate: true, DumpConcurrency: 2},
		{TargetTables: []string{"posts"}, CheckEngine: true},
		{EnableDrop: true, DumpConcurrency: 8},
	})
	assert.Equal(t, GeneratorConfig{
		TargetTables:    []string{"posts"},
		SkipTables:      []string{"tmp"},
		CheckCollate:    true,
		CheckEngine:     true,
		EnableDrop:      true,
		DumpConcurrency: 8,
	}, config)

	assert.Equal(t, GeneratorConfig{}, MergeGeneratorConfigs(nil))
}

func TestConcurrentMapFuncWithError(t *testing.T) {
	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	for _, concurrency := range []int{0, 1, 3, -1} {
		t.Run(fmt.Sprint(concurrency), func(t *testing.T) {
			var running, peak atomic.Int32
			outputs, err := ConcurrentMapFuncWithError(inputs, concurrency, func(i int) (string, error) {
				n := running.Add(1)
				defer running.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				return fmt.Sprintf("t%d", i), nil
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8"}, outputs)
			if concurrency == 0 || concurrency == 1 {
				assert.Equal(t, int32(1), peak.Load())
			} else if concurrency > 0 {
				assert.LessOrEqual(t, peak.Load(), int32(concurrency))
			}
		})
	}

	_, err := ConcurrentMapFuncWithError(inputs, 2, func(i int) (int, error) {
		if i == 5 {
			return 0, fmt.Errorf("failed on %d", i)
		}
		return i, nil
	})
	assert.EqualError(t, err, "failed on 5")
}
