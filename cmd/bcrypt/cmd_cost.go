package main

import (
	"fmt"

	"github.com/codahale/bcrypt/pkg/bcrypt"
)

type costCmd struct {
	Hash string `arg:"" help:"The bcrypt hash."`
}

func (cmd *costCmd) Run(_ *env) error {
	cost, err := bcrypt.Cost(cmd.Hash)
	if err != nil {
		return err
	}

	_, err = fmt.Println(cost)

	return err
}
