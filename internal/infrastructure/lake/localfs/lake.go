package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirillkom/docrouter/internal/core/domain"
	"github.com/kirillkom/docrouter/internal/core/ports"
)

const tagSuffix = ".tags.json"

// Lake is a filesystem-backed object lake for local development and tests.
// Each tier is a subdirectory; object tags live in a sidecar JSON file next
// to the blob.
type Lake struct {
	basePath string
}

func New(basePath string) (*Lake, error) {
	if basePath == "" {
		basePath = "./data/lake"
	}
	for _, tier := range []ports.Tier{ports.TierLanding, ports.TierCanonical, ports.TierDerived} {
		if err := os.MkdirAll(filepath.Join(basePath, string(tier)), 0o755); err != nil {
			return nil, fmt.Errorf("create lake dir: %w", err)
		}
	}
	return &Lake{basePath: basePath}, nil
}

func (l *Lake) objectPath(tier ports.Tier, key string) string {
	return filepath.Join(l.basePath, string(tier), filepath.FromSlash(key))
}

func (l *Lake) Put(_ context.Context, tier ports.Tier, key string, data io.Reader, _ int64, _ string) error {
	path := l.objectPath(tier, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	return nil
}

func (l *Lake) Download(_ context.Context, tier ports.Tier, key, localPath string) error {
	data, err := os.ReadFile(l.objectPath(tier, key))
	if err != nil {
		return wrapNotFound(fmt.Sprintf("download %s/%s", tier, key), err)
	}
	return os.WriteFile(localPath, data, 0o600)
}

func (l *Lake) Copy(_ context.Context, srcTier ports.Tier, srcKey string, dstTier ports.Tier, dstKey string) error {
	data, err := os.ReadFile(l.objectPath(srcTier, srcKey))
	if err != nil {
		return wrapNotFound(fmt.Sprintf("copy %s/%s", srcTier, srcKey), err)
	}
	dst := l.objectPath(dstTier, dstKey)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	// Tags do not follow the blob, matching S3 server-side copy with
	// replace tagging directives.
	return os.WriteFile(dst, data, 0o644)
}

func (l *Lake) Delete(_ context.Context, tier ports.Tier, key string) error {
	path := l.objectPath(tier, key)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s/%s: %w", tier, key, err)
	}
	_ = os.Remove(path + tagSuffix)
	return nil
}

func (l *Lake) GetTags(_ context.Context, tier ports.Tier, key string) (map[string]string, error) {
	if _, err := os.Stat(l.objectPath(tier, key)); err != nil {
		return nil, wrapNotFound(fmt.Sprintf("get tags %s/%s", tier, key), err)
	}
	data, err := os.ReadFile(l.objectPath(tier, key) + tagSuffix)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tags %s/%s: %w", tier, key, err)
	}
	tags := map[string]string{}
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, fmt.Errorf("decode tags %s/%s: %w", tier, key, err)
	}
	return tags, nil
}

func (l *Lake) SetTags(_ context.Context, tier ports.Tier, key string, tags map[string]string) error {
	if _, err := os.Stat(l.objectPath(tier, key)); err != nil {
		return wrapNotFound(fmt.Sprintf("set tags %s/%s", tier, key), err)
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags %s/%s: %w", tier, key, err)
	}
	return os.WriteFile(l.objectPath(tier, key)+tagSuffix, data, 0o644)
}

func (l *Lake) List(_ context.Context, tier ports.Tier, prefix string) ([]ports.ObjectInfo, error) {
	root := filepath.Join(l.basePath, string(tier))
	var infos []ports.ObjectInfo
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if strings.HasSuffix(path, tagSuffix) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		infos = append(infos, ports.ObjectInfo{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", tier, prefix, err)
	}
	return infos, nil
}

func wrapNotFound(operation string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return domain.WrapError(domain.ErrObjectNotFound, operation, err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
