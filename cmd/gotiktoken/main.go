package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gotiktoken/gotiktoken"
)

func die(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func loadEncoding(fs *flag.FlagSet) *gotiktoken.Encoding {
	encoding := fs.String("encoding", "", "encoder name (gpt2, r50k_base, p50k_base, p50k_edit, cl100k_base)")
	model := fs.String("model", "", "model name, resolved to an encoder via the model table")
	_ = fs.Parse(os.Args[2:])

	switch {
	case *model != "":
		enc, err := gotiktoken.NewEncodingForModel(gotiktoken.Model(*model), nil)
		if err != nil {
			slog.Error("failed to build encoding", "model", *model, "err", err)
			die(err)
		}
		return enc
	case *encoding != "":
		enc, err := gotiktoken.NewEncodingByName(gotiktoken.EncoderName(*encoding))
		if err != nil {
			slog.Error("failed to build encoding", "encoding", *encoding, "err", err)
			die(err)
		}
		return enc
	default:
		enc, err := gotiktoken.NewEncodingByName(gotiktoken.EncoderCl100kBase)
		if err != nil {
			die(err)
		}
		return enc
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("gotiktoken [encode|decode|count|trim-suffix|trim-prefix]")
		return
	}
	switch os.Args[1] {
	case "encode":
		fs := flag.NewFlagSet("encode", flag.ExitOnError)
		enc := loadEncoding(fs)
		var text string
		if err := json.NewDecoder(os.Stdin).Decode(&text); err != nil {
			die(err)
		}
		ids, err := enc.EncodeAll(text)
		if err != nil {
			die(err)
		}
		_ = json.NewEncoder(os.Stdout).Encode(ids)

	case "decode":
		fs := flag.NewFlagSet("decode", flag.ExitOnError)
		enc := loadEncoding(fs)
		var ids []uint32
		if err := json.NewDecoder(os.Stdin).Decode(&ids); err != nil {
			die(err)
		}
		text, err := enc.Decode(ids)
		if err != nil {
			die(err)
		}
		_ = json.NewEncoder(os.Stdout).Encode(text)

	case "count":
		fs := flag.NewFlagSet("count", flag.ExitOnError)
		enc := loadEncoding(fs)
		var text string
		if err := json.NewDecoder(os.Stdin).Decode(&text); err != nil {
			die(err)
		}
		ids, err := enc.EncodeAll(text)
		if err != nil {
			die(err)
		}
		_ = json.NewEncoder(os.Stdout).Encode(len(ids))

	case "trim-suffix":
		fs := flag.NewFlagSet("trim-suffix", flag.ExitOnError)
		maxTokens := fs.Int("max-tokens", 0, "token budget")
		enc := loadEncoding(fs)
		var text string
		if err := json.NewDecoder(os.Stdin).Decode(&text); err != nil {
			die(err)
		}
		result, err := enc.EncodeTrimSuffixAll(text, *maxTokens)
		if err != nil {
			die(err)
		}
		_ = json.NewEncoder(os.Stdout).Encode(result)

	case "trim-prefix":
		fs := flag.NewFlagSet("trim-prefix", flag.ExitOnError)
		maxTokens := fs.Int("max-tokens", 0, "token budget")
		enc := loadEncoding(fs)
		var text string
		if err := json.NewDecoder(os.Stdin).Decode(&text); err != nil {
			die(err)
		}
		result, err := enc.EncodeTrimPrefixAll(text, *maxTokens)
		if err != nil {
			die(err)
		}
		_ = json.NewEncoder(os.Stdout).Encode(result)

	default:
		fmt.Println("gotiktoken [encode|decode|count|trim-suffix|trim-prefix]")
	}
}
