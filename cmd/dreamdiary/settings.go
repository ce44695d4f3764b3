package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/dreamdiary/pkg/prefs"
	"github.com/aretw0/dreamdiary/pkg/seed"
)

var settingsCmd = &cobra.Command{
	Use:   "settings [key [value]]",
	Short: "Show or change vault preferences",
	Long: `Without arguments, settings prints every stored preference.
With a key it prints one value; with a key and a value it stores the value.
A stored value keeps its type. New values that parse as booleans or numbers
are stored as such. Seed completion flags cannot be cleared.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		diary := openDiary(cmd.Context())
		defer closeDiary(diary)
		p := diary.Prefs

		switch len(args) {
		case 0:
			all := p.All()
			for _, k := range p.Keys() {
				fmt.Printf("%s = %v\n", k, all[k])
			}
		case 1:
			v, ok := p.Value(args[0])
			if !ok {
				fatal("Unknown preference", fmt.Errorf("%q is not set", args[0]))
			}
			fmt.Println(v)
		default:
			if err := storeSetting(p, args[0], args[1]); err != nil {
				fatal("Failed to store preference", err)
			}
		}
	},
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a preference",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		diary := openDiary(cmd.Context())
		defer closeDiary(diary)

		if err := diary.Prefs.Remove(args[0]); err != nil {
			fatal("Failed to remove preference", err)
		}
	},
}

// storeSetting parses raw as the type of the value already stored under key.
// Known flags are booleans; other new keys are inferred from raw.
func storeSetting(p *prefs.Store, key, raw string) error {
	current, ok := p.Value(key)
	if !ok {
		switch {
		case isBoolKey(key), raw == "true", raw == "false":
			current = false
		case isInt(raw):
			current = 0
		case isFloat(raw):
			current = 0.0
		default:
			current = ""
		}
	}

	switch current.(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s holds a boolean: %w", key, err)
		}
		return p.SetBool(key, b)
	case int, int64, uint64:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s holds an integer: %w", key, err)
		}
		return p.SetInt(key, i)
	case float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s holds a number: %w", key, err)
		}
		return p.SetFloat(key, f)
	default:
		return p.SetString(key, raw)
	}
}

func isBoolKey(key string) bool {
	return key == prefs.KeyOnboardingShown || key == prefs.KeySynchronizationEnabled || seed.IsFlagKey(key)
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
}
