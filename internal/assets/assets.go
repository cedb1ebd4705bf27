// Package assets handles DAE asset loading and mesh caching.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gouthamsk98/go-dae/pkg/formats"
	"github.com/gouthamsk98/go-dae/pkg/mesh"
)

// Asset loading errors. Parse failures are returned wrapped and are
// distinct from both of these.
var (
	ErrFileNotFound = errors.New("file not found")
	ErrNoGeometry   = errors.New("no renderable geometry")
)

// Manager loads DAE files from a set of search paths and caches parsed
// documents and converted meshes. Safe for concurrent use.
type Manager struct {
	searchPaths []string
	opts        mesh.Options
	cache       *Cache
	docs        map[string]*formats.Document
	meshes      map[meshKey]*mesh.TriangleMesh
	mu          sync.RWMutex
}

type meshKey struct {
	path  string
	index int
}

// NewManager creates a new asset manager converting with the given
// options.
func NewManager(opts mesh.Options) *Manager {
	return &Manager{
		opts:   opts,
		cache:  NewCache(),
		docs:   make(map[string]*formats.Document),
		meshes: make(map[meshKey]*mesh.TriangleMesh),
	}
}

// AddSearchPath adds a directory to look up relative asset paths in.
// Paths are searched in reverse order (last added = highest priority).
func (m *Manager) AddSearchPath(dir string) {
	m.mu.Lock()
	m.searchPaths = append(m.searchPaths, dir)
	m.mu.Unlock()
}

// Load loads a file's raw bytes, trying the path as given and then
// against each search path.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	m.mu.RLock()
	candidates := []string{path}
	for i := len(m.searchPaths) - 1; i >= 0; i-- {
		candidates = append(candidates, filepath.Join(m.searchPaths[i], path))
	}
	m.mu.RUnlock()

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err == nil {
			m.cache.Set(path, data)
			return data, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
}

// LoadDocument loads and parses a DAE file, caching the parsed document.
func (m *Manager) LoadDocument(path string) (*formats.Document, error) {
	m.mu.RLock()
	doc, ok := m.docs[path]
	m.mu.RUnlock()
	if ok {
		return doc, nil
	}

	data, err := m.Load(path)
	if err != nil {
		return nil, err
	}

	doc, err = formats.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	m.mu.Lock()
	m.docs[path] = doc
	m.mu.Unlock()

	return doc, nil
}

// LoadMesh loads a DAE file and converts the mesh at the given index.
// Returns ErrNoGeometry when the index is out of range or the mesh holds
// no convertible triangle geometry.
func (m *Manager) LoadMesh(path string, index int) (*mesh.TriangleMesh, error) {
	key := meshKey{path: path, index: index}

	m.mu.RLock()
	cached, ok := m.meshes[key]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	doc, err := m.LoadDocument(path)
	if err != nil {
		return nil, err
	}

	converted := mesh.Convert(doc, index, m.opts)
	if converted == nil {
		return nil, fmt.Errorf("%w: %s mesh %d", ErrNoGeometry, path, index)
	}

	m.mu.Lock()
	m.meshes[key] = converted
	m.mu.Unlock()

	return converted, nil
}

// LoadAllMeshes converts every mesh in a DAE file, skipping indices with
// no renderable geometry. Returns ErrNoGeometry when none convert.
func (m *Manager) LoadAllMeshes(path string) ([]*mesh.TriangleMesh, error) {
	doc, err := m.LoadDocument(path)
	if err != nil {
		return nil, err
	}

	var meshes []*mesh.TriangleMesh
	for i := 0; i < doc.MeshCount(); i++ {
		converted, err := m.LoadMesh(path, i)
		if errors.Is(err, ErrNoGeometry) {
			continue
		}
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, converted)
	}

	if len(meshes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoGeometry, path)
	}
	return meshes, nil
}

// Clear drops all cached bytes, documents, and meshes.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs = make(map[string]*formats.Document)
	m.meshes = make(map[meshKey]*mesh.TriangleMesh)
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded file bytes.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
