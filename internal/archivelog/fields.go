package archivelog

// Standard field keys for structured logging across the archive core, page
// cache, registry, and CLI. Use these keys consistently so log output can
// be aggregated and queried the same way regardless of which layer emitted
// it.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// ========================================================================
	// Archive Identity & Operation
	// ========================================================================
	KeyArchivePath  = "archive_path"  // Full path to the archive file
	KeyArchiveType  = "archive_type"  // Caller-chosen archive classifier
	KeyPlatformKey  = "platform_key"  // Provenance identity (hex-encoded)
	KeyOperation    = "operation"     // Sub-operation: open, create, append, refresh
	KeyOrdinal      = "ordinal"       // Entry ordinal ID
	KeyEntryCount   = "entry_count"   // Footer entry count
	KeyFooterOffset = "footer_offset" // Current footer byte offset

	// ========================================================================
	// I/O
	// ========================================================================
	KeyOffset       = "offset"        // Byte offset for a positional read/write
	KeySize         = "size"          // Byte count
	KeyBytesRead    = "bytes_read"    // Actual bytes read
	KeyBytesWritten = "bytes_written" // Actual bytes written

	// ========================================================================
	// Page Cache
	// ========================================================================
	KeyCacheHit      = "cache_hit"      // Whether a page cache lookup hit
	KeyCacheState    = "cache_state"    // Page load state
	KeyCacheSize     = "cache_size"     // Current cache size in bytes
	KeyCacheCapacity = "cache_capacity" // Configured cache capacity in bytes
	KeyEvicted       = "evicted"        // Whether an eviction occurred

	// ========================================================================
	// Corruption & Validation
	// ========================================================================
	KeyCorrupt = "corrupt" // Whether corruption was detected

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms"
	KeyErr        = "error"
	KeyErrorCode  = "error_code"
	KeySource     = "source"
)
