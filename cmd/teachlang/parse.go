package main

import (
	"github.com/bmatcuk/doublestar/v4"

	"teachlang"
	"teachlang/internal/parser"
)

func parseSource(name, src string) (teachlang.Node, error) {
	root, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// parseAndAnalyze runs the lexer, parser, and semantic analyzer over
// src, returning the parse tree and the populated symbol table
// alongside the loaded configuration.
func parseAndAnalyze(name, src string) (teachlang.Node, *teachlang.Config, *teachlang.SymbolTable, error) {
	cfg := loadConfig()
	root, err := parseSource(name, src)
	if err != nil {
		return nil, nil, nil, err
	}
	lib := teachlang.NewDefaultLibrary(teachlang.NewSink(func(string) {}))
	symtab, err := teachlang.Analyze(root, lib)
	if err != nil {
		return nil, nil, nil, err
	}
	return root, cfg, symtab, nil
}

// expandGlob resolves a shell-glob pattern (supporting "**") to the
// list of files it matches, rooted at the current working directory.
func expandGlob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern)
}
