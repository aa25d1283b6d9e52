// tenx-align runs the linked-read-aware paired-end pair-intersection core
// over a FASTA reference and a pair of reads given on the command line, and
// prints the resulting alignment. It exists to exercise pairalign.Aligner
// end to end; production pipelines wire the same package directly against
// a FASTQ/BAM reader instead of this CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"

	"github.com/scigenomics/tenxalign/cluster"
	"github.com/scigenomics/tenxalign/genome"
	"github.com/scigenomics/tenxalign/pairalign"
	"github.com/scigenomics/tenxalign/score"
	"github.com/scigenomics/tenxalign/seq"
)

// opts exposes a subset of pairalign.Config's fields as flags, one flag per
// field, flattened onto the flag set directly rather than parsed from a
// separate config file; the remaining fields keep their DefaultConfig values.
type opts struct {
	refPath    string
	seedLen    int
	read0Bases string
	read0Qual  string
	read1Bases string
	read1Qual  string
	samPath      string
	clusterIdx   int
	trimSoftClip bool

	cfg pairalign.Config
}

func defaultOpts() opts {
	return opts{
		refPath: "",
		seedLen: 16,
		cfg:     pairalign.DefaultConfig(),
	}
}

func parseFlags() opts {
	o := defaultOpts()
	flag.StringVar(&o.refPath, "ref", "", "path to a (optionally .gz) FASTA reference")
	flag.IntVar(&o.seedLen, "seed-len", o.seedLen, "seed length for the genome index")
	flag.StringVar(&o.read0Bases, "r0", "", "read 0 bases")
	flag.StringVar(&o.read0Qual, "q0", "", "read 0 qualities (Phred ASCII, same length as -r0)")
	flag.StringVar(&o.read1Bases, "r1", "", "read 1 bases")
	flag.StringVar(&o.read1Qual, "q1", "", "read 1 qualities (Phred ASCII, same length as -r1)")
	flag.StringVar(&o.samPath, "sam", "", "read the pair from the first two records of this SAM file instead of -r0/-r1")
	flag.IntVar(&o.clusterIdx, "cluster", -1, "linked-read cluster identifier for this pair, or -1 for unclustered")
	flag.BoolVar(&o.trimSoftClip, "trim-soft-clip", false, "refund score for bases that overhang the end of their contig, instead of the no-op adjuster")

	flag.Uint64Var(&o.cfg.MinSpacing, "min-spacing", o.cfg.MinSpacing, "minimum mate spacing")
	flag.Uint64Var(&o.cfg.MaxSpacing, "max-spacing", o.cfg.MaxSpacing, "maximum mate spacing")
	flag.IntVar(&o.cfg.MaxK, "max-k", o.cfg.MaxK, "maximum edit distance per pair")
	flag.IntVar(&o.cfg.ExtraSearchDepth, "extra-search-depth", o.cfg.ExtraSearchDepth, "extra edit distance searched beyond the current best")
	flag.IntVar(&o.cfg.MaxBigHits, "max-big-hits", o.cfg.MaxBigHits, "seeds with at least this many hits are treated as popular and skipped")
	flag.IntVar(&o.cfg.MaxSeeds, "num-seeds", o.cfg.MaxSeeds, "seeds to try per read (0: derive from -seed-coverage)")
	flag.Float64Var(&o.cfg.SeedCoverage, "seed-coverage", o.cfg.SeedCoverage, "fallback seed density when -num-seeds is 0")
	flag.IntVar(&o.cfg.ClusterEDCompensation, "cluster-ed-compensation", o.cfg.ClusterEDCompensation, "astray penalty added to unclustered candidates")
	flag.Float64Var(&o.cfg.UnclusteredPenalty, "unclustered-penalty", o.cfg.UnclusteredPenalty, "probability multiplier applied to unclustered anchors")
	flag.IntVar(&o.cfg.MaxSecondaryAlignmentsPerContig, "mcp", o.cfg.MaxSecondaryAlignmentsPerContig, "max secondaries per contig (0: unbounded)")
	flag.IntVar(&o.cfg.MaxReturnedSecondaries, "max-secondaries", o.cfg.MaxReturnedSecondaries, "max secondaries returned to the caller")
	flag.BoolVar(&o.cfg.NoUkkonen, "no-ukkonen", o.cfg.NoUkkonen, "disable Ukkonen score-limit tightening")
	flag.BoolVar(&o.cfg.NoOrderedEvaluation, "no-ordered-evaluation", o.cfg.NoOrderedEvaluation, "evaluate all candidates in one bucket, ignoring best-possible-score ordering")
	flag.BoolVar(&o.cfg.NoTruncation, "no-truncation", o.cfg.NoTruncation, "disable final secondary-count truncation")

	flag.Parse()
	return o
}

// readPairFromSAM reads the first two records of the SAM stream at path and
// adapts them into a read pair via seq.FromSAM, for callers that already
// have aligned or unaligned reads sitting in a SAM file rather than loose
// bases on the command line.
func readPairFromSAM(path string) (read0, read1 seq.Read, err error) {
	f, err := os.Open(path)
	if err != nil {
		return seq.Read{}, seq.Read{}, err
	}
	defer f.Close()

	r, err := sam.NewReader(f)
	if err != nil {
		return seq.Read{}, seq.Read{}, errors.Wrapf(err, "open SAM %s", path)
	}

	rec0, err := r.Read()
	if err != nil {
		return seq.Read{}, seq.Read{}, errors.Wrapf(err, "read first SAM record from %s", path)
	}
	rec1, err := r.Read()
	if err != nil {
		return seq.Read{}, seq.Read{}, errors.Wrapf(err, "read second SAM record from %s", path)
	}
	return seq.FromSAM(rec0), seq.FromSAM(rec1), nil
}

func run(ctx context.Context, o opts) error {
	if o.refPath == "" {
		return errors.New("-ref is required")
	}
	view, err := genome.LoadFASTA(ctx, o.refPath)
	if err != nil {
		return err
	}
	idx := genome.Build(view, o.seedLen)

	var read0, read1 seq.Read
	if o.samPath != "" {
		read0, read1, err = readPairFromSAM(o.samPath)
		if err != nil {
			return err
		}
	} else {
		if o.read0Bases == "" || o.read1Bases == "" {
			return errors.New("-r0 and -r1 are required unless -sam is given")
		}
		q0 := []byte(o.read0Qual)
		if len(q0) == 0 {
			q0 = flatQuality(len(o.read0Bases), 30)
		}
		q1 := []byte(o.read1Qual)
		if len(q1) == 0 {
			q1 = flatQuality(len(o.read1Bases), 30)
		}
		read0 = seq.New("read0", []byte(o.read0Bases), q0)
		read1 = seq.New("read1", []byte(o.read1Bases), q1)
	}

	var adjuster pairalign.AlignmentAdjuster = pairalign.NoopAdjuster{}
	if o.trimSoftClip {
		adjuster = pairalign.SoftClipTrimmer{}
	}

	oracle := score.NewOracle()
	aligner := pairalign.NewAligner(o.cfg, idx, view, oracle, pairalign.MAPQ, adjuster)

	numClusters := o.clusterIdx + 1
	if numClusters < 1 {
		numClusters = 1
	}
	counter := cluster.NewCounter(numClusters)

	out := aligner.AlignPair(read0, read1, o.clusterIdx, counter)
	printResult(out)
	return nil
}

func flatQuality(n int, q byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = q + 33
	}
	return out
}

func printResult(out pairalign.AlignOutput) {
	if out.NeedLargerBuffer {
		log.Printf("secondary buffer too small, need room for %d", out.RequiredSecondaryCount)
		return
	}
	b := out.Best
	fmt.Printf("read0: locus=%d dir=%d score=%d status=%s mapq=%d\n", b.Read0.Locus, b.Read0.Direction, b.Read0.Score, b.Read0.Status, b.Read0.MAPQ)
	fmt.Printf("read1: locus=%d dir=%d score=%d status=%s mapq=%d\n", b.Read1.Locus, b.Read1.Direction, b.Read1.Score, b.Read1.Status, b.Read1.MAPQ)
	fmt.Printf("pair: prob=%.6g compensatedScore=%d cluster=%d secondaries=%d popularSeedsSkipped=%d locationsScored=%d\n",
		b.Probability, b.CompensatedScore, b.ClusterIdx, len(out.Secondaries), out.PopularSeedsSkipped, out.LocationsScored)
}

func main() {
	o := parseFlags()

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	start := time.Now()
	if err := run(ctx, o); err != nil {
		log.Fatal(err)
	}
	log.Printf("tenx-align done in %s", time.Since(start))
}
