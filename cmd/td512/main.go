// Command td512 compresses a file as a stream of 512-byte td512 blocks,
// decompresses it again and verifies the round trip.
//
// Usage:
//
//	td512 [-loops N] [-selftest] [-backends native,lz4,huffman] file
//
// It writes file.td512 (compressed) and file.td512d (decompressed), and
// reports sizes, best-of-N timings and the mode chosen for each block.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/arloliu/td512/block"
	"github.com/arloliu/td512/compress"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/internal/hash"
	"github.com/arloliu/td512/internal/selftest"
	"github.com/arloliu/td512/stream"
)

const version = "v1.0.0"

func main() {
	loops := flag.Int("loops", 1, "number of encode/decode passes; the fastest is reported")
	runSelftest := flag.Bool("selftest", false, "check every block length from 1 to 512 before processing the file")
	backendList := flag.String("backends", "", "comma-separated ExtendedString backends (default: "+backendNames(compress.DefaultStringBackends)+")")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: td512 [flags] file\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	fmt.Printf("tiny data compression td512 %s\n", version)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *loops < 1 {
		log.Fatalf("td512: -loops must be at least 1, got %d", *loops)
	}

	opts := []block.EncoderOption{}
	if *backendList != "" {
		backends, err := parseBackends(*backendList)
		if err != nil {
			log.Fatalf("td512: %v", err)
		}
		opts = append(opts, block.WithStringBackends(backends...))
	}

	counters := block.NewCounters()
	enc, err := block.NewEncoder(append(opts, block.WithCounters(counters))...)
	if err != nil {
		log.Fatalf("td512: failed to create encoder: %v", err)
	}
	dec := block.NewDecoder()

	if *runSelftest {
		if err := selftest.Run(enc, dec); err != nil {
			log.Fatalf("td512: %v", err)
		}
		counters.Reset()
		fmt.Println("   selftest passed")
	}

	name := flag.Arg(0)
	stats, err := run(enc, dec, counters, name, *loops)
	if err != nil {
		log.Fatalf("td512: %v", err)
	}

	report(name, stats)
}

// run compresses and decompresses the file, writes both outputs and
// verifies them. Counters reflect a single encoding pass.
func run(enc *block.Encoder, dec *block.Decoder, counters *block.Counters, name string, loops int) (stream.Stats, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return stream.Stats{}, err
	}
	if len(src) == 0 {
		return stream.Stats{}, fmt.Errorf("%s: file is empty", name)
	}

	stats := stream.Stats{
		OriginalSize: int64(len(src)),
		Blocks:       stream.BlockCount(len(src)),
		EncodeTime:   time.Duration(1<<63 - 1),
		DecodeTime:   time.Duration(1<<63 - 1),
	}

	var encoded []byte
	for i := 0; i < loops; i++ {
		counters.Reset()
		start := time.Now()
		encoded, err = stream.EncodeAll(enc, src)
		elapsed := time.Since(start)
		if err != nil {
			return stats, fmt.Errorf("encode: %w", err)
		}
		stats.EncodeTime = min(stats.EncodeTime, elapsed)
	}
	stats.CompressedSize = int64(len(encoded))
	stats.Modes = counters.Snapshot()

	var decoded []byte
	for i := 0; i < loops; i++ {
		start := time.Now()
		decoded, err = stream.DecodeAll(dec, encoded, len(src))
		elapsed := time.Since(start)
		if err != nil {
			return stats, fmt.Errorf("decode: %w", err)
		}
		stats.DecodeTime = min(stats.DecodeTime, elapsed)
	}

	if err := os.WriteFile(name+".td512", encoded, 0o644); err != nil { //nolint:gosec
		return stats, err
	}
	if err := os.WriteFile(name+".td512d", decoded, 0o644); err != nil { //nolint:gosec
		return stats, err
	}

	if !bytes.Equal(src, decoded) {
		return stats, errors.New("decoded data does not match the input")
	}

	return stats, verifyFile(dec, name+".td512", hash.Sum(src))
}

// verifyFile decodes the compressed file from disk and compares its digest
// with want.
func verifyFile(dec *block.Decoder, path string, want uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	digest := hash.NewDigest()
	if _, err := io.Copy(digest, stream.NewReader(f, dec)); err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	if got := digest.Sum64(); got != want {
		return fmt.Errorf("verify %s: digest %016x, want %016x", path, got, want)
	}

	return nil
}

func report(name string, s stream.Stats) {
	fmt.Printf("   file=%s\n", name)
	fmt.Printf("   original=%d compressed=%d blocks=%d ratio=%.4f savings=%.2f%%\n",
		s.OriginalSize, s.CompressedSize, s.Blocks, s.CompressionRatio(), s.SpaceSavings())
	fmt.Printf("   encode %.3f ms (%.1f MB/s), decode %.3f ms (%.1f MB/s)\n",
		float64(s.EncodeTime.Microseconds())/1000, s.EncodeThroughput(),
		float64(s.DecodeTime.Microseconds())/1000, s.DecodeThroughput())
	for _, m := range format.Modes {
		fmt.Printf("   %-15s %8d blocks (%5.1f%%)\n", m, s.Modes.Get(m), s.Modes.Percent(m))
	}
	fmt.Println("   round trip verified")
}

func parseBackends(list string) ([]format.Backend, error) {
	var backends []format.Backend
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		b, ok := format.ParseBackend(name)
		if !ok {
			return nil, fmt.Errorf("unknown backend %q (valid: %s)", name, backendNames(format.Backends))
		}
		backends = append(backends, b)
	}
	if len(backends) == 0 {
		return nil, errors.New("no backends given")
	}

	return backends, nil
}

func backendNames(backends []format.Backend) string {
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = strings.ToLower(b.String())
	}

	return strings.Join(names, ",")
}
