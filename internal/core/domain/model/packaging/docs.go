// Package packaging provides packaging types and the stations that pack them.
package packaging
