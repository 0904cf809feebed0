package main

import (
	"encoding/hex"
	"fmt"

	"github.com/codahale/bcrypt/pkg/bcrypt"
)

type saltCmd struct{}

func (cmd *saltCmd) Run(_ *env) error {
	salt, err := bcrypt.NewSalt()
	if err != nil {
		return err
	}

	_, err = fmt.Println(hex.EncodeToString(salt))

	return err
}
