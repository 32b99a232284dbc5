package engine

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/syssam/icegraph"
	"github.com/syssam/icegraph/dialect"
)

// Count returns the number of entries in one family. It scans the whole family.
func (e *Engine) Count(ctx context.Context, family string) (int, error) {
	const op = "count"
	n := 0
	err := e.view(ctx, op, func(tx dialect.Tx) error {
		return e.count(tx, op, family, &n)
	})
	return n, err
}

// CountRecords returns the number of entries across every family except the default one.
// It scans the whole store and is meant for diagnostics.
func (e *Engine) CountRecords(ctx context.Context) (int, error) {
	const op = "count_records"
	families, err := e.Families(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	err = e.view(ctx, op, func(tx dialect.Tx) error {
		for _, family := range families {
			if family == dialect.DefaultFamily {
				continue
			}
			if err := e.count(tx, op, family, &n); err != nil {
				return err
			}
		}
		return nil
	})
	return n, err
}

func (e *Engine) count(tx dialect.Tx, op, family string, n *int) error {
	err := tx.ForEach(family, func(_, _ []byte) error {
		*n++
		return nil
	})
	if err != nil {
		return storeError(op, family, "", err)
	}
	return nil
}

// DestroyEverything drops every family except the default one, with all their records.
// It cannot be undone. Families must be recreated with EnsureFamily before reuse.
func (e *Engine) DestroyEverything(ctx context.Context) error {
	const op = "destroy_everything"
	families, err := e.Families(ctx)
	if err != nil {
		return err
	}
	dropped := 0
	for _, family := range families {
		if family == dialect.DefaultFamily {
			continue
		}
		if err := e.drv.DropFamily(ctx, family); err != nil {
			return storeError(op, family, "", err)
		}
		dropped++
	}
	e.log.Warn("store destroyed", "path", e.path, "families", dropped)
	return nil
}

// DisplayFamilyHead writes the first entries of every family to w. Values are decoded
// as decodeAs(), or as the family's own kind when decodeAs is nil and the registry
// knows it, and printed as JSON. A value that does not decode is reported inline.
// Without a decoder values are printed raw: as text under the JSON codec, else as hex.
func (e *Engine) DisplayFamilyHead(ctx context.Context, w io.Writer, decodeAs func() icegraph.Record) error {
	const op = "display_family_head"
	families, err := e.Families(ctx)
	if err != nil {
		return err
	}
	return e.view(ctx, op, func(tx dialect.Tx) error {
		for _, family := range families {
			if _, err := fmt.Fprintf(w, "%s:\n", family); err != nil {
				return err
			}
			shown := 0
			err := tx.ForEach(family, func(key, value []byte) error {
				if shown == e.headSize {
					return dialect.ErrStop
				}
				shown++
				_, err := fmt.Fprintf(w, "  %s  %s\n", key, e.renderValue(family, value, decodeAs))
				return err
			})
			if err != nil {
				return storeError(op, family, "", err)
			}
			if shown == 0 {
				if _, err := fmt.Fprintln(w, "  (empty)"); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (e *Engine) renderValue(family string, value []byte, decodeAs func() icegraph.Record) string {
	var rec icegraph.Record
	if decodeAs != nil {
		rec = decodeAs()
	} else if r, ok := e.registry.NewRecord(family); ok {
		rec = r
	}
	if rec == nil {
		if _, ok := e.codec.(icegraph.JSONCodec); ok {
			return string(value)
		}
		const maxHex = 16
		if len(value) > maxHex {
			return fmt.Sprintf("%s... (%d bytes)", hex.EncodeToString(value[:maxHex]), len(value))
		}
		return fmt.Sprintf("%s (%d bytes)", hex.EncodeToString(value), len(value))
	}
	if err := e.codec.Unmarshal(value, rec); err != nil {
		return fmt.Sprintf("<undecodable as %s: %v>", rec.Family(), err)
	}
	out, err := icegraph.JSONCodec{}.Marshal(rec)
	if err != nil {
		return fmt.Sprintf("<unprintable: %v>", err)
	}
	return string(out)
}
