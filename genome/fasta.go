package genome

import (
	"context"
	"fmt"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/bio/encoding/fasta"
)

// LoadFASTA reads a (transparently decompressed) FASTA reference from path
// and returns a View over it. Parsing itself is handed to encoding/fasta
// rather than re-implemented here, so the reference's contig order and
// sequence boundaries come from the same scanner the rest of this module's
// commands already depend on.
func LoadFASTA(ctx context.Context, path string) (*View, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "genome.LoadFASTA: could not open", path)
	}
	defer func() { _ = f.Close(ctx) }()

	r, _ := compress.NewReader(f.Reader(ctx))
	defer r.Close()

	fa, err := fasta.New(r)
	if err != nil {
		return nil, errors.E(err, "genome.LoadFASTA: parse", path)
	}
	seqNames := fa.SeqNames()
	if len(seqNames) == 0 {
		return nil, errors.E(fmt.Sprintf("genome.LoadFASTA: no sequences in %s", path))
	}

	var (
		bases []byte
		lens  []Locus
	)
	for _, name := range seqNames {
		n, err := fa.Len(name)
		if err != nil {
			return nil, errors.E(err, "genome.LoadFASTA: length", name)
		}
		s, err := fa.Get(name, 0, n)
		if err != nil {
			return nil, errors.E(err, "genome.LoadFASTA: sequence", name)
		}
		bases = append(bases, strings.ToUpper(s)...)
		lens = append(lens, Locus(n))
	}
	return NewView(bases, NewContigTable(seqNames, lens)), nil
}
