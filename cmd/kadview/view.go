package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openblast/kadview/internal/app"
	"github.com/openblast/kadview/internal/pattern"
)

func runView(cmd *cobra.Command, args []string) error {
	session, err := loadSession()
	if err != nil {
		return err
	}
	defer session.Close()

	ui := app.New(session)
	if watchFlag && holesFile != "" {
		if err := session.WatchHoles(holesFile, ui.RefreshData); err != nil {
			return fmt.Errorf("watch %s: %w", holesFile, err)
		}
	}
	ui.ShowAndRun()
	return nil
}

func loadSession() (*pattern.Session, error) {
	if holesFile == "" && kadFile == "" {
		return nil, fmt.Errorf("nothing to load: pass --holes and/or --kad")
	}
	session := pattern.NewSession()
	if holesFile != "" {
		if err := session.LoadHoles(holesFile); err != nil {
			return nil, err
		}
	}
	if kadFile != "" {
		if err := session.LoadKAD(kadFile); err != nil {
			return nil, err
		}
	}
	return session, nil
}
