// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package backend

// VarType is a shader variable's scalar base type.
type VarType int

const (
	VarFloat VarType = iota
	VarSInt
	VarUInt
)

// Size returns the byte size of one scalar of t.
func (t VarType) Size() int { return 4 }

// ShaderVar names a single shader-visible value: a scalar, vector, or
// matrix built from VarType components.
//
// DimV is the vector width (1..4); DimM is the number of matrix columns
// (1 for a non-matrix value).
type ShaderVar struct {
	Name string
	Type VarType
	DimV int
	DimM int
}

// Layout is a computed memory layout for a ShaderVar: the byte offset
// and size of one column, the stride between columns, and the total
// size across all DimM columns.
type Layout struct {
	Offset     int
	ColumnSize int
	Stride     int
	Size       int
}
