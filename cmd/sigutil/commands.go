package main

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/mahdiidarabi/sigutil/pkg/sigutil"
)

// messageParams reads a personal message either from a JSON file or from the
// -data and -sig flags. A non-empty sig flag overrides the file's signature.
func (a *app) messageParams(file, data, sig string) (sigutil.MsgParams, error) {
	if file == "" {
		return sigutil.MsgParams{Data: sigutil.Text(data), Sig: sig}, nil
	}
	params, err := a.parser.ParseMessageFile(file)
	if err != nil {
		return sigutil.MsgParams{}, err
	}
	if sig != "" {
		params.Sig = sig
	}
	return params, nil
}

func (a *app) typedParams(file, sig string) (sigutil.TypedMsgParams, error) {
	if file == "" {
		return sigutil.TypedMsgParams{}, errors.New("-file is required")
	}
	params, err := a.parser.ParseTypedDataFile(file)
	if err != nil {
		return sigutil.TypedMsgParams{}, err
	}
	if sig != "" {
		params.Sig = sig
	}
	return params, nil
}

func runPersonalSign(a *app, args []string) error {
	data := a.fs.String("data", "", "Message text, or 0x-prefixed hex")
	file := a.fs.String("file", "", "Path to a message JSON file ({\"data\": ...})")
	if err := a.parse(args); err != nil {
		return err
	}

	key, err := a.cfg.PrivateKeyBytes()
	if err != nil {
		return err
	}
	params, err := a.messageParams(*file, *data, "")
	if err != nil {
		return err
	}
	sig, err := a.client.PersonalSign(key, params)
	if err != nil {
		return err
	}
	a.println(sig)
	return nil
}

func runPersonalRecover(a *app, args []string) error {
	data := a.fs.String("data", "", "Message text, or 0x-prefixed hex")
	sig := a.fs.String("sig", "", "Signature (r || s || v hex)")
	file := a.fs.String("file", "", "Path to a message JSON file ({\"data\": ..., \"sig\": ...})")
	if err := a.parse(args); err != nil {
		return err
	}

	params, err := a.messageParams(*file, *data, *sig)
	if err != nil {
		return err
	}
	signer, err := a.client.RecoverPersonalSignature(params)
	if err != nil {
		return err
	}
	a.println(signer)
	return nil
}

func runExtractPublicKey(a *app, args []string) error {
	data := a.fs.String("data", "", "Message text, or 0x-prefixed hex")
	sig := a.fs.String("sig", "", "Signature (r || s || v hex)")
	file := a.fs.String("file", "", "Path to a message JSON file ({\"data\": ..., \"sig\": ...})")
	if err := a.parse(args); err != nil {
		return err
	}

	params, err := a.messageParams(*file, *data, *sig)
	if err != nil {
		return err
	}
	publicKey, err := a.client.ExtractPublicKey(params)
	if err != nil {
		return err
	}
	a.println(publicKey)
	return nil
}

func runTypedHash(a *app, args []string) error {
	file := a.fs.String("file", "", "Path to a typed-data JSON file")
	if err := a.parse(args); err != nil {
		return err
	}

	params, err := a.typedParams(*file, "")
	if err != nil {
		return err
	}
	hash, err := a.client.TypedSignatureHash(params.Data)
	if err != nil {
		return err
	}
	a.println(hash)
	return nil
}

func runTypedSign(a *app, args []string) error {
	file := a.fs.String("file", "", "Path to a typed-data JSON file")
	if err := a.parse(args); err != nil {
		return err
	}

	key, err := a.cfg.PrivateKeyBytes()
	if err != nil {
		return err
	}
	params, err := a.typedParams(*file, "")
	if err != nil {
		return err
	}
	sig, err := a.client.SignTypedData(key, params)
	if err != nil {
		return err
	}
	a.println(sig)
	return nil
}

func runTypedRecover(a *app, args []string) error {
	file := a.fs.String("file", "", "Path to a typed-data JSON file")
	sig := a.fs.String("sig", "", "Signature (overrides the file's \"sig\")")
	if err := a.parse(args); err != nil {
		return err
	}

	params, err := a.typedParams(*file, *sig)
	if err != nil {
		return err
	}
	signer, err := a.client.RecoverTypedSignature(params)
	if err != nil {
		return err
	}
	a.println(signer)
	return nil
}

func runNormalize(a *app, args []string) error {
	integer := a.fs.Bool("integer", false, "Treat the value as a decimal integer")
	if err := a.parse(args); err != nil {
		return err
	}
	if a.fs.NArg() > 1 {
		return errors.New("normalize takes at most one value")
	}

	in := sigutil.Absent()
	if a.fs.NArg() == 1 {
		value := a.fs.Arg(0)
		in = sigutil.Text(value)
		if *integer {
			n, ok := new(big.Int).SetString(value, 10)
			if !ok {
				return errors.Errorf("invalid integer %q", value)
			}
			in = sigutil.Integer(n)
		}
	}

	out, ok, err := sigutil.Normalize(in)
	if err != nil {
		return err
	}
	if !ok {
		a.println("(absent)")
		return nil
	}
	a.println(out)
	return nil
}

func runBatchRecover(a *app, args []string) error {
	file := a.fs.String("file", "", "Path to a JSON list of {\"kind\", \"data\", \"sig\"} requests")
	if err := a.parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("-file is required")
	}

	requests, err := a.parser.ParseBatchFile(*file)
	if err != nil {
		return err
	}
	results, err := a.client.RecoverBatch(a.ctx, requests)
	if err != nil {
		return err
	}

	failed := 0
	for i, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(a.stdout, "%d\terror: %v\n", i, res.Err)
			continue
		}
		fmt.Fprintf(a.stdout, "%d\t%s\n", i, res.Address)
	}
	if failed > 0 {
		return errors.Errorf("%d of %d requests failed", failed, len(results))
	}
	return nil
}
