package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nansencenter/govrt"
	"github.com/nansencenter/govrt/gcs"
	"github.com/nansencenter/govrt/ncdf"
	"github.com/spf13/cobra"
)

var blockSize string
var numCachedBlocks int
var showMetadata bool
var domain string

func init() {
	infoCommand.Flags().StringVarP(&blockSize, "gs.blocksize", "b", "512k", "gs:// block size")
	infoCommand.Flags().IntVarP(&numCachedBlocks, "gs.numblocks", "n", 512, "number of gs:// blocks to cache")
	infoCommand.Flags().BoolVarP(&showMetadata, "metadata", "m", false, "print metadata items")
	infoCommand.Flags().StringVar(&domain, "domain", "", "metadata domain to print")
}

func main() {
	err := infoCommand.Execute()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var infoCommand = &cobra.Command{
	Use:   "vrtinfo [flags] -- file",
	Short: "describe the structure and bands of a raster dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		infile := args[0]
		if strings.HasPrefix(infile, "gs://") {
			err := gcs.RegisterHandler(ctx,
				gcs.BlockSize(blockSize), gcs.MaxCachedBlocks(numCachedBlocks))
			if err != nil {
				return fmt.Errorf("gcs.registerhandler: %w", err)
			}
		}
		ncdf.Register()
		ds, err := govrt.Open(infile)
		if err != nil {
			return fmt.Errorf("open %s: %w", infile, err)
		}
		out := cmd.OutOrStdout()
		st := ds.Structure()
		fmt.Fprintf(out, "driver: %s\n", ds.Driver())
		fmt.Fprintf(out, "size: %dx%d, %d band(s)\n", st.SizeX, st.SizeY, st.NBands)
		if gt, err := ds.GeoTransform(); err == nil {
			fmt.Fprintf(out, "geotransform: %v\n", gt)
		}
		if proj := ds.Projection(); proj != "" {
			fmt.Fprintf(out, "projection: %s\n", proj)
		}
		if gcps, _ := ds.GCPs(); len(gcps) > 0 {
			fmt.Fprintf(out, "gcps: %d\n", len(gcps))
		}
		if showMetadata {
			printMetadata(out, ds.Metadatas(govrt.Domain(domain)), "")
		}
		for _, band := range ds.Bands() {
			bst := band.Structure()
			fmt.Fprintf(out, "band %d: %s, block %dx%d\n",
				band.Number(), bst.DataType, bst.BlockSizeX, bst.BlockSizeY)
			if fn := band.PixelFunction(); fn != "" {
				fmt.Fprintf(out, "  pixel function: %s\n", fn)
			}
			for _, src := range band.Sources() {
				fmt.Fprintf(out, "  source: %s band %d (%s)\n", src.Filename, src.Band, src.Kind)
			}
			if showMetadata {
				printMetadata(out, band.Metadatas(govrt.Domain(domain)), "  ")
			}
		}
		return nil
	},
}

func printMetadata(out io.Writer, md map[string]string, indent string) {
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%s%s=%s\n", indent, k, md[k])
	}
}
