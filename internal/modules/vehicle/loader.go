// README: Vehicle loader for JSON documents and id;type;timestamps text files.
package vehicle

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"toll/internal/types"
)

var ErrUnsupportedDocument = errors.New("unsupported vehicle document")

var validate = validator.New()

// zone-less layouts are read in the loader's location
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

type Loader struct {
	loc *time.Location
	log *zap.Logger
}

// NewLoader returns a loader reading zone-less timestamps in loc (UTC when nil).
func NewLoader(loc *time.Location, log *zap.Logger) *Loader {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{loc: loc, log: log}
}

// LoadFile reads path as JSON when it has a .json extension and as
// delimited text otherwise.
func (l *Loader) LoadFile(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open vehicles: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return l.ParseJSON(f)
	}
	return l.ParseDelimited(f)
}

type jsonVehicle struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	TollPassDates []string `json:"tollPassDates"`
}

type jsonEnvelope struct {
	Vehicles []json.RawMessage `json:"vehicles"`
}

// ParseJSON accepts either a top-level array of vehicles or an object with
// a "vehicles" array.
func (l *Loader) ParseJSON(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read vehicles: %w", err)
	}

	var items []json.RawMessage
	switch trimmed := bytes.TrimSpace(data); {
	case len(trimmed) == 0:
		return Result{}, fmt.Errorf("%w: empty document", ErrUnsupportedDocument)
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Result{}, fmt.Errorf("decode vehicles: %w", err)
		}
	case trimmed[0] == '{':
		var env jsonEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return Result{}, fmt.Errorf("decode vehicles: %w", err)
		}
		if env.Vehicles == nil {
			return Result{}, fmt.Errorf("%w: object has no vehicles array", ErrUnsupportedDocument)
		}
		items = env.Vehicles
	default:
		return Result{}, fmt.Errorf("%w: expected an array or an object with vehicles", ErrUnsupportedDocument)
	}

	var res Result
	for i, raw := range items {
		var jv jsonVehicle
		if err := json.Unmarshal(raw, &jv); err != nil {
			res.skip(l.log, Skipped{Position: i, Reason: err.Error()})
			continue
		}
		v, err := l.build(jv.ID, jv.Type, jv.TollPassDates)
		if err != nil {
			res.skip(l.log, Skipped{Position: i, ID: jv.ID, Reason: err.Error()})
			continue
		}
		res.Vehicles = append(res.Vehicles, v)
	}
	return res, nil
}

// ParseDelimited reads one vehicle per line as id;type;ts1,ts2,... Blank
// lines and lines starting with # are ignored.
func (l *Loader) ParseDelimited(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var res Result
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read vehicles: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(fields) < 2 || len(fields) > 3 {
			res.skip(l.log, Skipped{Position: line, ID: fields[0], Reason: fmt.Sprintf("expected id;type;timestamps, got %d fields", len(fields))})
			continue
		}
		var stamps []string
		if len(fields) == 3 && strings.TrimSpace(fields[2]) != "" {
			stamps = strings.Split(fields[2], ",")
		}
		v, err := l.build(fields[0], fields[1], stamps)
		if err != nil {
			res.skip(l.log, Skipped{Position: line, ID: fields[0], Reason: err.Error()})
			continue
		}
		res.Vehicles = append(res.Vehicles, v)
	}
	return res, nil
}

func (l *Loader) build(id, vehicleType string, stamps []string) (*Vehicle, error) {
	v := &Vehicle{
		ID:            types.ID(strings.TrimSpace(id)),
		Type:          strings.TrimSpace(vehicleType),
		TollPassDates: make([]time.Time, 0, len(stamps)),
	}
	if err := validate.Struct(v); err != nil {
		return nil, err
	}
	for _, s := range stamps {
		t, err := l.ParseTimestamp(s)
		if err != nil {
			return nil, err
		}
		v.TollPassDates = append(v.TollPassDates, t)
	}
	if v.Type == "" {
		l.log.Warn("vehicle: record without type", zap.String("vehicle_id", string(v.ID)))
	}
	return v, nil
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO 8601 date-times.
func (l *Loader) ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, l.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func (r *Result) skip(log *zap.Logger, s Skipped) {
	log.Warn("vehicle: skipping record",
		zap.Int("position", s.Position),
		zap.String("vehicle_id", s.ID),
		zap.String("reason", s.Reason),
	)
	r.Skipped = append(r.Skipped, s)
}
