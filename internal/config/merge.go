package config

import "strings"

// MergeScan folds config layers over the base settings. Later layers win;
// nil fields leave the accumulated value untouched.
func MergeScan(base ScanSettings, layers ...ScanConfig) ScanSettings {
	out := base
	for _, layer := range layers {
		out.OriginalDomain = ResolveAndTrim(out.OriginalDomain, layer.OriginalDomain)
		out.NewDomain = ResolveAndTrim(out.NewDomain, layer.NewDomain)
		out.Paths = ResolveStrings(out.Paths, layer.Paths)
		out.Excludes = ResolveStrings(out.Excludes, layer.Excludes)
		out.Extensions = ResolveStrings(out.Extensions, layer.Extensions)
		out.Write = ResolveBool(out.Write, layer.Write)
		out.Jobs = ResolveInt(out.Jobs, layer.Jobs)
		out.MaxFileBytes = ResolveInt(out.MaxFileBytes, layer.MaxFileBytes)
		out.Root = ResolveAndTrim(out.Root, layer.Root)
	}
	if strings.TrimSpace(out.Root) == "" {
		out.Root = "."
	}
	return out
}

func MergeUI(base UISettings, layers ...UIConfig) UISettings {
	out := base
	for _, layer := range layers {
		out.Output = ResolveAndTrim(out.Output, layer.Output)
		out.Color = ResolveAndTrim(out.Color, layer.Color)
		out.Fields = ResolveAndTrim(out.Fields, layer.Fields)
	}
	if out.Output == "" {
		out.Output = "table"
	}
	if out.Color == "" {
		out.Color = "auto"
	}
	return out
}
