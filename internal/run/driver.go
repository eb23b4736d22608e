package run

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/alex-ozdemir/murxla/internal/config"
)

// RunRecord is one completed run's bookkeeping, handed to the caller
// (normally internal/report) after Continuous returns.
type RunRecord struct {
	ID       string // uuid, also used as the trace file's basename
	Seed     uint64
	Err      error
	DurElaps time.Duration
}

// Continuous drives One in-process repeatedly (it never re-execs a
// child): once per requested seed, or until
// opts.MaxRuns/opts.Time exhausts the budget. Every run gets its own
// uuid, used both as its trace file's basename under opts.OutDir and as
// the correlation id a later report carries for that seed — the same
// role a request id plays in a server's access log, generalized here to
// one fuzzing run instead of one HTTP request.
func Continuous(opts config.Options, deadline time.Time) ([]RunRecord, error) {
	var records []RunRecord
	runs := uint32(0)
	for {
		if opts.MaxRuns > 0 && runs >= opts.MaxRuns {
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		seed := opts.Seed
		if !opts.IsSeeded {
			s, err := FreshSeed()
			if err != nil {
				return records, errors.Wrap(err, "run: drawing a fresh seed")
			}
			seed = int64(s)
		}

		id := uuid.New().String()
		start := time.Now()
		rec := RunRecord{ID: id, Seed: uint64(seed)}

		var w io.Writer = io.Discard
		var closer io.Closer
		if opts.OutDir != "" {
			if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
				return records, errors.Wrap(err, "run: creating out-dir")
			}
			f, err := os.Create(filepath.Join(opts.OutDir, id+".trace"))
			if err != nil {
				return records, errors.Wrap(err, "run: creating trace file")
			}
			w, closer = f, f
		}

		runOpts := opts
		runOpts.Seed = seed
		runOpts.IsSeeded = true
		outcome := One(uint64(seed), runOpts, w)
		if closer != nil {
			_ = closer.Close()
		}

		rec.Err = outcome.Err
		rec.DurElaps = time.Since(start)
		if rec.Err != nil {
			log.Warnf("run: seed=%d run=%s failed: %v", seed, id, rec.Err)
		}
		records = append(records, rec)
		runs++
	}
	return records, nil
}

// FreshSeed draws a uniformly random 64-bit seed from the OS CSPRNG,
// the way a fuzzer must when the user hasn't pinned --seed: math/rand's
// global source is deterministic unless reseeded, and reseeding it from
// time.Now() races every other package that also reseeds it.
func FreshSeed() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
