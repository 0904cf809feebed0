package main

import (
	"encoding/hex"
	"fmt"

	"github.com/codahale/bcrypt/pkg/bcrypt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type hashCmd struct {
	Cost int    `help:"The cost parameter. Defaults to the configured cost."`
	Salt string `help:"A hex-encoded 16-byte salt. Defaults to a random salt."`
}

func (cmd *hashCmd) Run(e *env) error {
	cost := cmd.Cost
	if cost == 0 {
		cost = e.config.Cost
	}

	salt, err := cmd.salt()
	if err != nil {
		return err
	}

	password, err := readPassword(true)
	if err != nil {
		return err
	}
	defer zero(password)

	hash, err := bcrypt.Hash(cost, salt, password)
	if err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{"cost": cost}).Debug("hashed password")

	_, err = fmt.Println(hash)

	return err
}

func (cmd *hashCmd) salt() ([]byte, error) {
	if cmd.Salt == "" {
		return bcrypt.NewSalt()
	}

	salt, err := hex.DecodeString(cmd.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "decoding salt")
	}

	return salt, nil
}
