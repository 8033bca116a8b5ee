/*
Package smartcontract contains functions to deal with widely used scripts and NEP-14 Parameters.
Neo is all about various executed code, verifications and executions of
transactions need NeoVM code and this package simplifies creating it
for common tasks like multisignature verification scripts or transaction
entry scripts that call previously deployed contracts. Another problem related
to scripts and invocations is that RPC invocations use JSONized NEP-14
parameters, so this package provides types and methods to deal with that too.
*/
package smartcontract
