package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest lists the organizations to seed and their data files, relative to
// the manifest directory.
type Manifest struct {
	Organizations []OrganizationSeed `yaml:"organizations"`
}

type OrganizationSeed struct {
	Name    string   `yaml:"name"`
	Website string   `yaml:"website"`
	Files   []string `yaml:"files"`
	Model   string   `yaml:"model"` // optional forecast artifact to publish
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	for i, org := range m.Organizations {
		if org.Name == "" {
			return nil, fmt.Errorf("organization #%d has no name", i+1)
		}
	}
	return &m, nil
}

// ProcessedFile records a file that was already imported.
type ProcessedFile struct {
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	ProcessedAt time.Time `json:"processed_at"`
}

// CacheData stores information about processed files, keyed by path.
type CacheData struct {
	ProcessedFiles map[string]ProcessedFile `json:"processed_files"`
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		ProcessedFiles: make(map[string]ProcessedFile),
	}

	data, err := os.ReadFile(cacheFile)
	if errors.Is(err, fs.ErrNotExist) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.ProcessedFiles == nil {
		cache.ProcessedFiles = make(map[string]ProcessedFile)
	}
	return cache, nil
}

func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Seen reports whether path was processed with the same content hash.
func (c *CacheData) Seen(path, hash string) bool {
	cached, ok := c.ProcessedFiles[path]
	return ok && cached.FileHash == hash
}

func (c *CacheData) Mark(path, hash string, at time.Time) {
	c.ProcessedFiles[path] = ProcessedFile{FilePath: path, FileHash: hash, ProcessedAt: at}
}

func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func resolvePath(baseDir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(baseDir, name)
}
