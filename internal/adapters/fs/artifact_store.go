package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// Suffixes scarb uses for the two compiled representations
const (
	SierraSuffix = ".contract_class.json"
	CasmSuffix   = ".compiled_contract_class.json"
)

// ArtifactStore reads scarb build output from the artifacts directory
type ArtifactStore struct {
	fs          afero.Fs
	dir         string
	packageName string
}

// NewArtifactStore creates an artifact store rooted at cfg.ArtifactsDir
func NewArtifactStore(cfg *config.RuntimeConfig, fs afero.Fs) *ArtifactStore {
	return &ArtifactStore{
		fs:          fs,
		dir:         cfg.ArtifactsDir,
		packageName: cfg.PackageName(),
	}
}

// Load returns the Sierra/CASM pair for the named contract. Every failure is
// reported as *domain.ArtifactLoadError.
func (s *ArtifactStore) Load(ctx context.Context, name string) (*domain.ContractArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.ArtifactLoadError{Contract: name, Err: err}
	}

	sierraPath, err := s.resolve(name)
	if err != nil {
		return nil, &domain.ArtifactLoadError{Contract: name, Path: s.dir, Err: err}
	}
	casmPath := strings.TrimSuffix(sierraPath, SierraSuffix) + CasmSuffix

	sierra, err := afero.ReadFile(s.fs, sierraPath)
	if err != nil {
		return nil, &domain.ArtifactLoadError{Contract: name, Path: sierraPath, Err: err}
	}
	casm, err := afero.ReadFile(s.fs, casmPath)
	if err != nil {
		return nil, &domain.ArtifactLoadError{Contract: name, Path: casmPath, Err: err}
	}
	if !json.Valid(casm) {
		return nil, &domain.ArtifactLoadError{Contract: name, Path: casmPath, Err: errors.New("invalid JSON")}
	}

	abi, err := domain.ParseSierraABI(sierra)
	if err != nil {
		return nil, &domain.ArtifactLoadError{Contract: name, Path: sierraPath, Err: err}
	}

	return &domain.ContractArtifact{
		Name:       name,
		SierraPath: sierraPath,
		CasmPath:   casmPath,
		Sierra:     sierra,
		Casm:       casm,
		ABI:        abi,
	}, nil
}

// resolve finds the Sierra file for name. With a known scarb package the
// exact <package>_<name> file is preferred; otherwise any <prefix>_<name> or a
// bare <name> file matches, as long as the match is unique.
func (s *ArtifactStore) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("contract name is empty")
	}

	if s.packageName != "" {
		exact := filepath.Join(s.dir, s.packageName+"_"+name+SierraSuffix)
		if ok, _ := afero.Exists(s.fs, exact); ok {
			return exact, nil
		}
	}

	prefixed, err := afero.Glob(s.fs, filepath.Join(s.dir, "*_"+name+SierraSuffix))
	if err != nil {
		return "", err
	}
	matches := prefixed

	bare := filepath.Join(s.dir, name+SierraSuffix)
	if ok, _ := afero.Exists(s.fs, bare); ok {
		matches = append(matches, bare)
	}
	matches = lo.Uniq(matches)
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return "", s.notFound(name)
	case 1:
		return matches[0], nil
	default:
		return "", domain.AmbiguousArtifactErr{Contract: name, Matches: matches}
	}
}

// Contracts lists the contract names that have a Sierra artifact in the directory
func (s *ArtifactStore) Contracts() ([]string, error) {
	files, err := afero.Glob(s.fs, filepath.Join(s.dir, "*"+SierraSuffix))
	if err != nil {
		return nil, err
	}
	names := lo.Map(files, func(file string, _ int) string {
		base := strings.TrimSuffix(filepath.Base(file), SierraSuffix)
		if s.packageName != "" && strings.HasPrefix(base, s.packageName+"_") {
			return strings.TrimPrefix(base, s.packageName+"_")
		}
		if i := strings.LastIndex(base, "_"); i >= 0 {
			return base[i+1:]
		}
		return base
	})
	names = lo.Uniq(names)
	sort.Strings(names)
	return names, nil
}

// notFound builds the missing-artifact error, naming the closest match and
// the contracts that do exist
func (s *ArtifactStore) notFound(name string) error {
	known, _ := s.Contracts()
	msg := fmt.Sprintf("no %s artifact for %s in %s", SierraSuffix, name, s.dir)
	if hint := suggest(name, known); hint != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", hint)
	}
	if len(known) > 0 {
		msg += fmt.Sprintf("; available: %s", strings.Join(known, ", "))
	}
	return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
}

// suggest returns the closest known contract name, if any
func suggest(name string, known []string) string {
	if len(known) == 0 {
		return ""
	}
	matches := fuzzy.Find(name, known)
	if len(matches) == 0 {
		matches = fuzzy.Find(strings.ToLower(name), lo.Map(known, func(k string, _ int) string { return strings.ToLower(k) }))
		if len(matches) == 0 {
			return ""
		}
	}
	return known[matches[0].Index]
}

var _ usecase.ArtifactRepository = (*ArtifactStore)(nil)
