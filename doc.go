// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

/*
Package datazoo is a set of compact in-memory containers built on bit-level
storage, and the command line tool that exercises them.

The containers are generic over where their words live (see package storage):

  - bitset: fixed-length bit sets with range queries, set algebra and an
    iterator over set bits.
  - jagged: arrays of variable-length rows stored as one offset list and one
    flat element list, fixed (Array) or growable (Vec).
  - packed: arrays of integers of any bit width below 64, keyed by an
    integer type.

Packages bitmatrix, multimap and depgraph compose them into larger
structures. The root package holds what the commands share.
*/
package datazoo
