package stats

import (
	"sync"
	"testing"

	"github.com/alex-ozdemir/murxla/internal/solver"
	"github.com/alex-ozdemir/murxla/internal/theory"
	"github.com/stretchr/testify/assert"
)

func Test_RecordResult(t *testing.T) {
	s := New()
	s.RecordResult(solver.Sat)
	s.RecordResult(solver.Sat)
	s.RecordResult(solver.Unsat)
	r := s.Results()
	assert.Equal(t, [3]int64{2, 1, 0}, r)
}

func Test_RecordOpCounts(t *testing.T) {
	s := New()
	s.RecordOp(theory.Kind("OP_BV_ADD"), true)
	s.RecordOp(theory.Kind("OP_BV_ADD"), false)
	counts := s.OpCounts()
	assert.Len(t, counts, 1)
	assert.Equal(t, int64(2), counts[0].Count)
	assert.Equal(t, int64(1), counts[0].OK)
}

func Test_RecordActionConcurrent(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.RecordAction("ASSERT_FORMULA", true)
		}()
	}
	wg.Wait()
	counts := s.ActionCounts()
	assert.Equal(t, [2]int64{100, 100}, counts["ASSERT_FORMULA"])
}

func Test_RecordState(t *testing.T) {
	s := New()
	s.RecordState("CHECK_SAT")
	s.RecordState("CHECK_SAT")
	assert.Equal(t, int64(2), s.StateCounts()["CHECK_SAT"])
}
