package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/rack"
)

// Format is a profile file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// file is the on-disk shape of a profile.
type file struct {
	Name    string            `toml:"name" json:"name"`
	Devices []rack.Descriptor `toml:"device" json:"devices"`
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown profile extension %q (use .toml or .json)", filepath.Ext(path))
	}
}

// Read decodes a profile from r. The profile is validated, so overlapping
// or malformed descriptors are reported here.
func Read(r io.Reader, format Format) (*rack.Profile, error) {
	var f file
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", undec[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return rack.NewProfile(f.Name, f.Devices)
}

// Write encodes p to w.
func Write(w io.Writer, p *rack.Profile, format Format) error {
	f := file{Name: p.Name(), Devices: p.Descriptors()}
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(f); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return nil
}

// Import reads the profile file at path.
func Import(path string) (*rack.Profile, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	p, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Export writes p to a file at path.
func Export(p *rack.Profile, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeAndClose(f, p, format); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeAndClose writes p to w and closes it. A close error is returned when
// the write itself succeeded.
func writeAndClose(w io.WriteCloser, p *rack.Profile, format Format) (err error) {
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(w, p, format)
}

// Resolve returns the built-in profile called nameOrPath, or imports it as
// a file when no built-in has that name.
func Resolve(nameOrPath string) (*rack.Profile, error) {
	if p, ok := Builtin(nameOrPath); ok {
		return p, nil
	}
	if _, err := FormatOf(nameOrPath); err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no built-in profile %q (have %s)", nameOrPath, strings.Join(Names(), ", "))
	}
	return Import(nameOrPath)
}
