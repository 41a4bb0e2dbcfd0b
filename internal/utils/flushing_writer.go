package utils

import (
	"io"
	"sync"
)

// flushable matches writers that buffer output and expose an explicit Flush.
type flushable interface{ Flush() error }

// FlushingWriter forwards writes to the wrapped writer and flushes it after
// every write so progress messages appear as they are produced.
type FlushingWriter struct {
	writer  io.Writer
	flusher flushable
	mutex   sync.Mutex
}

// NewFlushingWriter wraps writer, flushing after each write when the writer
// supports it. Already wrapped writers are returned unchanged.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if existingWriter, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return existingWriter
	}

	flushingWriter := &FlushingWriter{writer: writer}
	if flusher, supportsFlush := writer.(flushable); supportsFlush {
		flushingWriter.flusher = flusher
	}
	return flushingWriter
}

// Write forwards data to the wrapped writer and flushes when supported.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushingWriter.flusher != nil {
		if flushError := flushingWriter.flusher.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}

	return bytesWritten, nil
}
