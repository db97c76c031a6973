package codec

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a codec from its JSON configuration, which may be empty.
type Factory func(config []byte, opts Options) (Codec, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a codec available to chain metadata under name.
// Registering a name twice replaces the earlier factory.
func Register(name string, f Factory) {
	if f == nil {
		panic(fmt.Sprintf("codec: nil factory for %q", name))
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// ByName returns the factory registered under name.
func ByName(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// Names returns the registered codec names in lexical order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(BytesName, newBytesCodec)
	Register(ZstdName, newZstdCodec)
	Register(GzipName, newGzipCodec)
	Register(LZ4Name, newLZ4Codec)
	Register(CRC32CName, newCRC32CCodec)
}
