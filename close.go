package chunkflow

// Close releases the codec chain, the chunk cache and the store handle.
// Calls after Close fail with ErrClosed. Close is idempotent.
func (p *Pipeline) Close() error {
	if p == nil || !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	var firstErr error
	if err := p.handles.close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if p.cache != nil {
		if err := p.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := p.chain.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
