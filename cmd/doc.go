// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

/*
Package cmd contains the datazoo subcommand definitions, one per file.

Each subcommand wraps a command from package ctl: the cobra flags write
straight into the ctl command's fields, and configuration from the
environment or a config file is applied to the same flags before the command
runs.
*/
package cmd
