// Command blocktable inspects the block runtime id table built from a resource
// directory and exports the palette sent to clients.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/oriumgames/blockmap"
	"github.com/oriumgames/blockmap/format"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "blocktable.yaml", "path to the YAML configuration")
	dir := flag.String("dir", "", "resource directory (overrides config)")
	seed := flag.Int64("seed", -1, "permutation seed (overrides config, -1 keeps it)")
	level := flag.String("level", "default", "export compression: none, fast, default or best")
	flag.Usage = usage
	flag.Parse()

	log := logrus.New()

	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	c, err := loadConfig(*configPath, explicit)
	if err != nil {
		log.Fatal(err)
	}
	if *dir != "" {
		c.Resources = *dir
	}
	if *seed >= 0 {
		s := uint64(*seed)
		c.Seed = &s
	}
	conf, err := c.tableConfig(log)
	if err != nil {
		log.Fatal(err)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	if args[0] == "inspect" {
		if err := inspect(args[1:]); err != nil {
			log.Fatal(err)
		}
		return
	}

	t, err := blockmap.Load(c.Resources, conf)
	if err != nil {
		log.Fatal(err)
	}

	switch args[0] {
	case "dump":
		dump(t)
	case "lookup":
		err = lookup(t, args[1:])
	case "reverse":
		err = reverse(t, args[1:])
	case "export":
		err = export(t, args[1:], *level, log)
	case "checksum":
		var sum uint64
		if sum, err = t.Checksum(); err == nil {
			fmt.Printf("%016x\n", sum)
		}
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: blocktable [flags] <command>")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  dump                  print every runtime id with its state")
	fmt.Fprintln(os.Stderr, "  lookup <id> [meta]    print the runtime id of a legacy block")
	fmt.Fprintln(os.Stderr, "  reverse <runtime id>  print the legacy block of a runtime id")
	fmt.Fprintln(os.Stderr, "  export <file>         write the client palette to a table file")
	fmt.Fprintln(os.Stderr, "  inspect <file>        print the contents of an exported table file")
	fmt.Fprintln(os.Stderr, "  checksum              print the checksum of the runtime id assignment")
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func dump(t *blockmap.Table) {
	for rid := range t.Len() {
		s, _ := t.State(uint32(rid))
		reachable := "-"
		if s.Registrable() {
			reachable = "legacy"
		}
		fmt.Printf("%d\t%s\t%d\t%d\t%08x\t%s\n", rid, s.Name, s.LegacyID, s.Meta, s.Hash(), reachable)
	}
}

func lookup(t *blockmap.Table, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("lookup: expected <id> [meta]")
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("lookup: id: %w", err)
	}
	var meta uint64
	if len(args) == 2 {
		if meta, err = strconv.ParseUint(args[1], 10, 16); err != nil {
			return fmt.Errorf("lookup: meta: %w", err)
		}
	}
	rid := t.RuntimeID(uint32(id), uint16(meta))
	s, _ := t.State(rid)
	fmt.Printf("%d\t%s\n", rid, s)
	return nil
}

func reverse(t *blockmap.Table, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("reverse: expected <runtime id>")
	}
	rid, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("reverse: runtime id: %w", err)
	}
	id, meta, ok := t.Legacy(uint32(rid))
	if !ok {
		return fmt.Errorf("reverse: %w: %d", blockmap.ErrUnknownRuntimeID, rid)
	}
	fmt.Printf("%d\t%d\n", id, meta)
	return nil
}

func export(t *blockmap.Table, args []string, level string, log logrus.FieldLogger) error {
	if len(args) != 1 {
		return fmt.Errorf("export: expected <file>")
	}
	compression, err := parseLevel(level)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	data, err := t.MarshalPalette()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	out, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := format.WriteTable(out, data, compression); err != nil {
		_ = out.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	sum, err := t.Checksum()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	data, err = readTableFile(args[0])
	if err != nil {
		return fmt.Errorf("export: verify: %w", err)
	}
	if written := xxhash.Sum64(data); written != sum {
		return fmt.Errorf("export: verify: checksum of %s is %016x, expected %016x", args[0], written, sum)
	}
	log.WithFields(logrus.Fields{
		"file":     args[0],
		"states":   t.Len(),
		"protocol": protocol.CurrentProtocol,
		"version":  protocol.CurrentVersion,
		"checksum": fmt.Sprintf("%016x", sum),
	}).Info("exported block palette")
	return nil
}

func inspect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("inspect: expected <file>")
	}
	data, err := readTableFile(args[0])
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	entries, err := decodePalette(data)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	for rid, e := range entries {
		fmt.Printf("%d\t%s\t%d\n", rid, e.Block.Name, e.ID)
	}
	fmt.Printf("%d states, checksum %016x\n", len(entries), xxhash.Sum64(data))
	return nil
}

// readTableFile returns the palette payload of the table file at path.
func readTableFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return format.ReadTable(bufio.NewReader(f))
}

// decodePalette decodes a palette payload written by blockmap.Table.MarshalPalette.
func decodePalette(data []byte) ([]blockmap.ExportEntry, error) {
	var entries []blockmap.ExportEntry
	if err := nbt.UnmarshalEncoding(data, &entries, nbt.NetworkLittleEndian); err != nil {
		return nil, fmt.Errorf("decode palette: %w", err)
	}
	return entries, nil
}

func parseLevel(s string) (format.CompressionLevel, error) {
	switch s {
	case "none":
		return format.CompressionLevelNone, nil
	case "fast":
		return format.CompressionLevelFast, nil
	case "default":
		return format.CompressionLevelDefault, nil
	case "best":
		return format.CompressionLevelBest, nil
	}
	return 0, fmt.Errorf("unknown compression level %q", s)
}
