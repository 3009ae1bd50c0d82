// Package scan discovers candidate media files under the input directory.
package scan
