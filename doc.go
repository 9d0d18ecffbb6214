// Copyright (c) 2025 bpxfmt
// SPDX-License-Identifier: MIT

/*
Package bpx provides pure Go support for reading and writing BPX container
files.

BPX is a container format for structured, typed, optionally compressed and
checksummed sections of binary data. It is used to package shaders, assets
and arbitrary typed payloads behind a single small file header and a table
of section headers. This package implements the core container engine:
the main/section header layout, the per-section compression and checksum
pipeline, and a handle-based API for creating and reading section bodies.

Higher level formats built on top of the container live in sibling
packages: github.com/bpxfmt/bpx/sd for the BPX Structured Data value tree,
github.com/bpxfmt/bpx/strtab for the strings-section helper, and
github.com/bpxfmt/bpx/bpxp / github.com/bpxfmt/bpx/shader for the Package
and Shader container variants.

# Basic usage

Creating a container and writing a section:

	c := bpx.NewContainer(bpx.MainHeader{Type: 'P'})
	h, err := c.Sections().Create(bpx.SectionHeader{Type: 1})
	if err != nil {
		log.Fatal(err)
	}
	s, err := c.Sections().Open(h)
	if err != nil {
		log.Fatal(err)
	}
	s.Write([]byte("hello"))

	f, _ := os.Create("out.bpx")
	defer f.Close()
	if err := c.Save(f); err != nil {
		log.Fatal(err)
	}

Reading it back:

	f, _ := os.Open("out.bpx")
	defer f.Close()
	c, err := bpx.Open(f)
	if err != nil {
		log.Fatal(err)
	}
	for _, h := range c.Sections().Handles() {
		s, _ := c.Sections().Open(h)
		data, _ := s.LoadAll()
		fmt.Println(string(data))
	}

# Format versions

BPX currently defines a single wire version ([CurrentVersion] = 0x2).
[Open] rejects any other version with [ErrUnsupportedVersion].

# Limitations

This package focuses on the core container engine described by the BPX
specification:

  - No random-access indexed queries into compressed section bodies
  - No concurrent mutation of a single container from multiple writers
  - No streaming truncation / in-place deletion of section bodies
  - No forward compatibility with unknown major format versions
*/
package bpx
