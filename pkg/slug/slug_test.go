// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contenedorjem/cursos/pkg/slug"
)

/*
TestFrom covers the slug pipeline: accent stripping, lowercasing, hyphen
collapsing, and trimming.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Redes", "redes"},
		{"spaces", "Programacion en Go", "programacion-en-go"},
		{"accents", "Programación Avanzada", "programacion-avanzada"},
		{"enye", "Diseño de Sistemas", "diseno-de-sistemas"},
		{"punctuation", "Bases de Datos: SQL & NoSQL!", "bases-de-datos-sql-nosql"},
		{"digits", "Go 101 (2026)", "go-101-2026"},
		{"leading_trailing_junk", "  --Redes--  ", "redes"},
		{"empty", "", ""},
		{"only_symbols", "***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
