package main

import (
	"github.com/codahale/bcrypt/pkg/bcrypt"
	"github.com/sirupsen/logrus"
)

type verifyCmd struct {
	Hash string `arg:"" help:"The bcrypt hash to verify against."`
}

func (cmd *verifyCmd) Run(e *env) error {
	cost, err := bcrypt.Cost(cmd.Hash)
	if err != nil {
		return err
	}

	password, err := readPassword(false)
	if err != nil {
		return err
	}
	defer zero(password)

	if err := bcrypt.Compare(cmd.Hash, password); err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{"cost": cost}).Info("password matches")

	return nil
}
