// Package sigutil signs and recovers messages for account-based ledgers.
//
// Two digest schemes are supported:
//
//   - personal messages: keccak256(prefix || len(message) || message), where the
//     prefix ("\x19Vapory Signed Message:\n" by default) keeps a message
//     signature from being replayed as a signature over other data;
//   - typed data: an ordered list of {type, name, value} fields hashed as
//     keccak256(schemaHash || valueHash), both halves produced by the
//     Solidity packed encoder.
//
// Signatures travel as 0x-prefixed hex of r || s || v (65 bytes, r and s left
// padded to 32 bytes each). Signing and recovery run on secp256k1.
//
// # Quick Start
//
//	key, _ := hexutil.Decode("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
//
//	sig, err := sigutil.PersonalSign(key, sigutil.MsgParams{Data: sigutil.Text("Hello")})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	signer, err := sigutil.RecoverPersonalSignature(sigutil.MsgParams{
//	    Data: sigutil.Text("Hello"),
//	    Sig:  sig,
//	})
//
// # Typed data
//
//	doc := sigutil.TypedData{
//	    {Type: "string", Name: "message", Value: "Hi, Alice!"},
//	    {Type: "uint32", Name: "value", Value: 42},
//	}
//	sig, err := sigutil.SignTypedData(key, sigutil.TypedMsgParams{Data: doc})
//
// # Customization
//
// A Client carries the curve, logger, message prefix and batch worker count:
//
//	client := sigutil.NewClient().
//	    WithLogger(logger).
//	    WithMessagePrefix(sigutil.EthereumMessagePrefix).
//	    WithWorkers(8)
//
// Every Client method is a pure function of its arguments, so one Client can
// be shared between goroutines. Private keys are read for the duration of a
// call and never logged or retained.
package sigutil
