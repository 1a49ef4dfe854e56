package bmesh

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/meshforge/bmesh/core"
	"github.com/meshforge/bmesh/fan"
	"github.com/meshforge/bmesh/reconstruct"
	"github.com/meshforge/bmesh/table"
	"github.com/meshforge/bmesh/validate"
)

// EncodedMesh is one mesh's encoded payload. Positions and Triangles form
// the primary triangulated output every consumer understands; FaceSizes and
// Tables are the auxiliary layers an upgrading consumer uses to recover the
// original topology.
type EncodedMesh struct {
	// Positions holds one 3D position per vertex, in arena index order.
	Positions [][3]float32
	// Triangles is the flat triangle index stream, length divisible by 3,
	// anchor first within each triangle.
	Triangles []uint32
	// FaceSizes is the per-face vertex count in face traversal order. It
	// lets a fallback decode recover exact polygon boundaries; nil when
	// hints were disabled.
	FaceSizes []uint32
	// Tables is the explicit layer; nil or partial sets are valid and
	// shift decoding onto the fallback path.
	Tables *table.Set
}

// DecodeResult is a completed decode: the rebuilt arena, the strategy that
// produced it, reconstruction warnings and the validation report (nil when
// validation was disabled).
type DecodeResult struct {
	Mesh     *core.Mesh
	Strategy reconstruct.Strategy
	Warnings []reconstruct.Warning
	Report   *validate.Report
}

// Codec encodes and decodes meshes with one fixed configuration. It is
// stateless apart from that configuration and safe for concurrent use.
type Codec struct {
	opts   options
	writer *table.Writer
	recon  *reconstruct.Reconstructor
}

// New creates a Codec.
func New(optFns ...Option) *Codec {
	opts := applyOptions(optFns)
	readerOpts := []func(*table.ReaderOptions){}
	if opts.strictManifold {
		readerOpts = append(readerOpts, table.WithStrictManifold())
	}
	return &Codec{
		opts:   opts,
		writer: table.NewWriter(opts.writerOptions...),
		recon: reconstruct.New(
			reconstruct.WithReader(table.NewReader(readerOpts...)),
		),
	}
}

// Encode linearizes the mesh into the triangle stream and, unless disabled,
// the explicit tables. It fails atomically: on error no partial payload is
// returned.
func (c *Codec) Encode(ctx context.Context, m *core.Mesh) (*EncodedMesh, error) {
	faces := make([][]uint32, len(m.Faces))
	for i := range m.Faces {
		face := make([]uint32, len(m.Faces[i].Verts))
		for j, v := range m.Faces[i].Verts {
			face[j] = uint32(v)
		}
		faces[i] = face
	}

	tris, err := fan.Encode(faces)
	if err != nil {
		err = translateError(err)
		c.opts.logger.LogEncode(ctx, len(faces), 0, err)
		return nil, err
	}

	out := &EncodedMesh{
		Positions: make([][3]float32, len(m.Verts)),
		Triangles: fan.Flatten(tris),
	}
	for i := range m.Verts {
		out.Positions[i] = m.Verts[i].Position
	}
	if c.opts.faceSizes {
		out.FaceSizes = make([]uint32, len(faces))
		for i, face := range faces {
			out.FaceSizes[i] = uint32(len(face))
		}
	}
	if c.opts.tables {
		out.Tables = c.writer.Encode(m)
	}

	c.opts.logger.LogEncode(ctx, len(faces), len(tris), nil)
	return out, nil
}

// Decode rebuilds the arena from whichever layers the payload carries and,
// unless disabled, validates the result. A validation failure does not
// return an error; the caller inspects the report and decides.
func (c *Codec) Decode(ctx context.Context, in *EncodedMesh) (*DecodeResult, error) {
	tris, err := fan.FromFlat(in.Triangles)
	if err != nil {
		err = translateError(err)
		c.opts.logger.LogDecode(ctx, "", 0, err)
		return nil, err
	}

	res, err := c.recon.Reconstruct(reconstruct.Input{
		Positions: in.Positions,
		Triangles: tris,
		FaceSizes: in.FaceSizes,
		Tables:    in.Tables,
	})
	if err != nil {
		err = translateError(err)
		c.opts.logger.LogDecode(ctx, "", 0, err)
		return nil, err
	}

	out := &DecodeResult{
		Mesh:     res.Mesh,
		Strategy: res.Strategy,
		Warnings: res.Warnings,
	}
	if c.opts.validate {
		out.Report = validate.Check(res.Mesh)
		c.opts.logger.LogValidation(ctx, out.Report.Status().String(), len(out.Report.Diagnostics))
	}
	c.opts.logger.LogDecode(ctx, res.Strategy.String(), len(res.Warnings), nil)
	return out, nil
}

// EncodeAll encodes independent meshes in parallel. Arenas share no state,
// so the only coordination is the worker limit; results keep input order.
// The first error cancels the remaining work.
func (c *Codec) EncodeAll(ctx context.Context, meshes []*core.Mesh) ([]*EncodedMesh, error) {
	out := make([]*EncodedMesh, len(meshes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.concurrency)
	for i, m := range meshes {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			enc, err := c.Encode(ctx, m)
			if err != nil {
				return err
			}
			out[i] = enc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeAll decodes independent payloads in parallel, keeping input order.
func (c *Codec) DecodeAll(ctx context.Context, payloads []*EncodedMesh) ([]*DecodeResult, error) {
	out := make([]*DecodeResult, len(payloads))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.concurrency)
	for i, p := range payloads {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.Decode(ctx, p)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Encode encodes one mesh with default configuration.
func Encode(ctx context.Context, m *core.Mesh, optFns ...Option) (*EncodedMesh, error) {
	return New(optFns...).Encode(ctx, m)
}

// Decode decodes one payload with default configuration.
func Decode(ctx context.Context, in *EncodedMesh, optFns ...Option) (*DecodeResult, error) {
	return New(optFns...).Decode(ctx, in)
}
