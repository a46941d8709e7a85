// Command onpairctl is an operator CLI around the onpair library: train a
// dictionary from a JSON dataset, compress a dataset against it,
// decompress a single string back out of a container, and inspect a
// container's basic stats.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/onpairhq/onpair"
	"github.com/spf13/cobra"
)

func main() {
	if err := newCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "onpairctl",
		Short: "Train, compress, decompress, and inspect OnPair dictionaries",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
		},
	}

	var threshold uint16
	var maxTokenLen int

	trainCmd := &cobra.Command{
		Use:   "train <dataset.json> <out.dict>",
		Short: "Train a dictionary from a JSON array of strings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			strings, err := loadDataset(args[0])
			if err != nil {
				return err
			}

			var opts []onpair.Option
			if threshold != 0 {
				opts = append(opts, onpair.WithThreshold(threshold))
			}
			if maxTokenLen != 0 {
				opts = append(opts, onpair.WithMaxTokenLength(maxTokenLen))
			}

			model, err := onpair.Train(strings, opts...)
			if err != nil {
				return fmt.Errorf("train: %w", err)
			}

			f, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[1], err)
			}
			defer f.Close()

			if err := json.NewEncoder(f).Encode(model); err != nil {
				return fmt.Errorf("write %s: %w", args[1], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "trained %d dictionary entries from %d strings\n", model.DictionarySize(), len(strings))
			return nil
		},
	}
	trainCmd.Flags().Uint16Var(&threshold, "threshold", 0, "minimum pair frequency to merge (0 = dynamic default)")
	trainCmd.Flags().IntVar(&maxTokenLen, "max-token-len", 0, "maximum dictionary entry length in bytes (0 = unlimited; 16 for E2/E3/E4)")

	compressCmd := &cobra.Command{
		Use:   "compress <dataset.json> <dict.json> <variant> <out.container>",
		Short: "Compress a dataset against a trained dictionary",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			strings, err := loadDataset(args[0])
			if err != nil {
				return err
			}

			model, err := loadModel(args[1])
			if err != nil {
				return err
			}

			variant, err := parseVariant(args[2])
			if err != nil {
				return err
			}

			container, err := model.Compress(strings, variant)
			if err != nil {
				return fmt.Errorf("compress: %w", err)
			}

			f, err := os.Create(args[3])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[3], err)
			}
			defer f.Close()

			if _, err := container.WriteTo(f); err != nil {
				return fmt.Errorf("write %s: %w", args[3], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "compressed %d strings into %s (variant %s, %d bytes)\n",
				container.Rows(), args[3], container.Variant(), container.SpaceUsed())
			return nil
		},
	}

	decompressCmd := &cobra.Command{
		Use:   "decompress <container> <index>",
		Short: "Decompress a single string from a container by index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := loadContainer(args[0])
			if err != nil {
				return err
			}

			var index int
			if _, err := fmt.Sscanf(args[1], "%d", &index); err != nil {
				return fmt.Errorf("parse index %q: %w", args[1], err)
			}

			decoded, err := container.DecompressOne(index)
			if err != nil {
				return fmt.Errorf("decompress: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(decoded))
			return nil
		},
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect <container>",
		Short: "Print basic stats about a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := loadContainer(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "variant:          %s\n", container.Variant())
			fmt.Fprintf(out, "strings:          %d\n", container.Rows())
			fmt.Fprintf(out, "dictionary size:  %d\n", container.DictionarySize())
			fmt.Fprintf(out, "space used:       %d bytes\n", container.SpaceUsed())
			return nil
		},
	}

	rootCmd.AddCommand(trainCmd, compressCmd, decompressCmd, inspectCmd)
	return rootCmd
}

func loadDataset(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var strings []string
	if err := json.Unmarshal(data, &strings); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return strings, nil
}

func loadModel(path string) (*onpair.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	defer f.Close()

	var model onpair.Model
	if err := json.NewDecoder(f).Decode(&model); err != nil {
		return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
	}
	return &model, nil
}

func loadContainer(path string) (*onpair.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open container %s: %w", path, err)
	}
	defer f.Close()

	var container onpair.Container
	if _, err := container.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("read container %s: %w", path, err)
	}
	return &container, nil
}

func parseVariant(s string) (onpair.Variant, error) {
	switch s {
	case "E1":
		return onpair.VariantE1, nil
	case "E2":
		return onpair.VariantE2, nil
	case "E3":
		return onpair.VariantE3, nil
	case "E4":
		return onpair.VariantE4, nil
	default:
		return 0, fmt.Errorf("unknown variant %q (want one of E1, E2, E3, E4)", s)
	}
}
