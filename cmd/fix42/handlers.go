/*
fix42 — FIX 4.2 message codec and tools
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/stephenlclarke/fix42/decoder"
	"github.com/stephenlclarke/fix42/fix"
)

// handleMessage processes the -message flag. Returns true if handled.
func handleMessage(opts CLIOptions, out io.Writer) bool {
	if !opts.Message.isSet {
		return false
	}

	switch opts.Message.value {
	case "true": // bare -message
		for _, mt := range fix.MsgTypes() {
			fmt.Fprintf(out, "%2s: %s\n", mt.String(), mt.Name())
		}
	case "": // explicit -message=
		PrintUsage(out)
	default:
		mt, ok := resolveMsgType(opts.Message.value)
		if !ok {
			fmt.Fprintf(out, "Message not found: %s\n", opts.Message.value)
			return true
		}
		printMessage(out, mt)
	}

	return true
}

func printMessage(out io.Writer, mt fix.MsgType) {
	dict := decoder.LoadDictionary()
	def := dict.Messages[mt.String()]

	fmt.Fprintf(out, "%s%s%s (%s)\n", decoder.ColourName, def.Name, decoder.ColourReset, def.MsgType)
	for _, tag := range def.Required {
		fmt.Fprintf(out, "    %s%4d%s %-22s %s\n", decoder.ColourTag, tag, decoder.ColourReset, dict.GetFieldName(tag), dict.GetFieldType(tag))
	}
}

// resolveMsgType accepts a MsgType code ("D") or name ("NewOrderSingle").
func resolveMsgType(s string) (fix.MsgType, bool) {
	if mt, err := fix.ParseMsgType(s); err == nil {
		return mt, true
	}
	for _, mt := range fix.MsgTypes() {
		if strings.EqualFold(mt.Name(), s) {
			return mt, true
		}
	}
	return 0, false
}

// handleTag processes the -tag flag. Returns true if handled.
func handleTag(opts CLIOptions, out io.Writer) bool {
	if !opts.Tag.isSet {
		return false
	}

	switch opts.Tag.value {
	case "true": // bare -tag
		handleBareTag(out)
	case "": // explicit -tag=
		PrintUsage(out)
	default:
		handleSpecificTag(opts, out)
	}

	return true
}

func handleBareTag(out io.Writer) {
	dict := decoder.LoadDictionary()
	for _, tag := range dict.Tags() {
		kind := "custom"
		if fix.IsNamed(tag) {
			kind = "named"
		}
		typ := dict.GetFieldType(tag)
		if typ == "" {
			typ = "-"
		}
		fmt.Fprintf(out, "%5d: %-24s %-14s %s\n", tag, dict.GetFieldName(tag), typ, kind)
	}
}

func handleSpecificTag(opts CLIOptions, out io.Writer) {
	id, err := strconv.Atoi(opts.Tag.value)
	if err != nil {
		fmt.Fprintf(out, "Invalid tag: %s\n", opts.Tag.value)
		return
	}

	dict := decoder.LoadDictionary()
	if !dict.HasTag(id) {
		fmt.Fprintf(out, "Tag not found: %d\n", id)
		return
	}
	name := dict.GetFieldName(id)

	fmt.Fprintf(out, "%s%d%s: %s%s%s", decoder.ColourTag, id, decoder.ColourReset, decoder.ColourName, name, decoder.ColourReset)
	if typ := dict.GetFieldType(id); typ != "" {
		fmt.Fprintf(out, " (%s)", typ)
	}
	fmt.Fprintln(out)

	for _, code := range dict.EnumCodes(id) {
		fmt.Fprintf(out, "    %s%s%s: %s\n", decoder.ColourValue, code, decoder.ColourReset, dict.GetEnumDescription(id, code))
	}
}

// handleEncode builds a message from -type/-sender/-target/-seq/-time and
// tag=value arguments, then prints its wire form.
func handleEncode(opts CLIOptions, out, errOut io.Writer, logger *slog.Logger) (bool, int) {
	if !opts.Encode {
		return false, 0
	}

	mt, ok := resolveMsgType(opts.MsgType)
	if !ok {
		fmt.Fprintf(errOut, "%sUnknown message type: %q%s\n", decoder.ColourError, opts.MsgType, decoder.ColourReset)
		return true, 1
	}

	b := fix.NewBuilder(mt, opts.Sender, opts.Target, opts.SeqNum)
	if opts.SendingTime != "" {
		b.SendingTime(opts.SendingTime)
	}

	for _, arg := range opts.Args {
		tag, value, err := parseTagValue(arg)
		if err != nil {
			fmt.Fprintf(errOut, "%s%v%s\n", decoder.ColourError, err, decoder.ColourReset)
			return true, 1
		}
		b.Field(tag, value)
	}

	m, err := b.Build()
	if err != nil {
		fmt.Fprintf(errOut, "%sCannot encode message: %v%s\n", decoder.ColourError, err, decoder.ColourReset)
		return true, 1
	}

	logger.Info("encoded message",
		slog.String("msgType", m.MsgType().Name()),
		slog.Int("seq", m.MsgSeqNum()),
		slog.Int("bodyLength", m.BodyLength()),
		slog.String("checkSum", m.CheckSum()))

	if opts.Pretty {
		fmt.Fprintln(out, m.String())
		return true, 0
	}
	if _, err := m.WriteTo(out); err != nil {
		fmt.Fprintf(errOut, "%sCannot write message: %v%s\n", decoder.ColourError, err, decoder.ColourReset)
		return true, 1
	}
	fmt.Fprintln(out)

	return true, 0
}

func parseTagValue(arg string) (int, string, error) {
	k, v, ok := strings.Cut(arg, "=")
	if !ok {
		return 0, "", fmt.Errorf("expected tag=value, got %q", arg)
	}
	tag, err := strconv.Atoi(k)
	if err != nil || tag <= 0 {
		return 0, "", fmt.Errorf("invalid tag in %q", arg)
	}
	return tag, v, nil
}

// runHandlers invokes the -encode, -message and -tag handlers in turn.
// It reports whether one of them ran and the exit code to use.
func runHandlers(opts CLIOptions, out, errOut io.Writer, logger *slog.Logger) (bool, int) {
	if handled, code := handleEncode(opts, out, errOut, logger); handled {
		return true, code
	}

	handled := false
	if handleMessage(opts, out) {
		handled = true
	}
	if handleTag(opts, out) {
		handled = true
	}

	return handled, 0
}
