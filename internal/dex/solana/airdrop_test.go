package solana

import (
	"context"
	"encoding/binary"
	"testing"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
)

func TestAirdropInstructionData(t *testing.T) {
	data, err := airdropInstructionData(77)
	if err != nil {
		t.Fatalf("airdropInstructionData returned error: %v", err)
	}
	if len(data) != 9 {
		t.Fatalf("expected 9-byte payload, got %d", len(data))
	}
	if data[0] != 0 {
		t.Fatalf("expected variant 0, got %d", data[0])
	}
	if amount := binary.LittleEndian.Uint32(data[1:5]); amount != 77 {
		t.Fatalf("expected amount 77, got %d", amount)
	}
	for i := 5; i < 9; i++ {
		if data[i] != 0 {
			t.Fatalf("expected zero padding at byte %d", i)
		}
	}
}

func TestNewAirdropInstruction(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	ata, _ := ResolveTokenAccount(testUSDC, user)

	ix, err := NewAirdropInstruction(user, ata, testUSDC, 100)
	if err != nil {
		t.Fatalf("NewAirdropInstruction returned error: %v", err)
	}
	if !ix.ProgramID().Equals(AirdropProgramID) {
		t.Fatalf("unexpected program id %s", ix.ProgramID())
	}
	accounts := ix.Accounts()
	if len(accounts) != 5 {
		t.Fatalf("expected 5 accounts, got %d", len(accounts))
	}
	if !accounts[0].PublicKey.Equals(user) || !accounts[0].IsSigner || !accounts[0].IsWritable {
		t.Fatalf("expected user as writable signer")
	}
	if !accounts[1].PublicKey.Equals(ata) || !accounts[1].IsWritable {
		t.Fatalf("expected writable token account second")
	}
	if !accounts[4].PublicKey.Equals(solana.TokenProgramID) {
		t.Fatalf("expected token program last")
	}
}

func TestAirdropUSDCCreatesMissingAccount(t *testing.T) {
	client := &fakeRPC{hasAccount: false}
	wallet := NewKeypairWallet(solana.NewWallet().PrivateKey)

	faucet := NewFaucet(client, "confirmed", zerolog.Nop())
	if _, err := faucet.AirdropUSDC(context.Background(), wallet, testUSDC, 100); err != nil {
		t.Fatalf("AirdropUSDC returned error: %v", err)
	}
	if len(client.sent) != 1 {
		t.Fatalf("expected one transaction, got %d", len(client.sent))
	}
	if got := len(client.sent[0].Message.Instructions); got != 2 {
		t.Fatalf("expected create + mint instructions, got %d", got)
	}
}

func TestAirdropUSDCExistingAccount(t *testing.T) {
	client := &fakeRPC{hasAccount: true}
	wallet := NewKeypairWallet(solana.NewWallet().PrivateKey)

	faucet := NewFaucet(client, "confirmed", zerolog.Nop())
	if _, err := faucet.AirdropUSDC(context.Background(), wallet, testUSDC, 100); err != nil {
		t.Fatalf("AirdropUSDC returned error: %v", err)
	}
	if got := len(client.sent[0].Message.Instructions); got != 1 {
		t.Fatalf("expected mint instruction only, got %d", got)
	}
}

func TestAirdropSOLTargetsWrappedAccount(t *testing.T) {
	client := &fakeRPC{hasAccount: true}
	owner := solana.NewWallet()
	wallet := NewKeypairWallet(owner.PrivateKey)
	ata, _ := ResolveTokenAccount(solana.SolMint, owner.PublicKey())

	faucet := NewFaucet(client, "confirmed", zerolog.Nop())
	if _, err := faucet.AirdropSOL(context.Background(), wallet); err != nil {
		t.Fatalf("AirdropSOL returned error: %v", err)
	}
	if len(client.airdrops) != 1 || !client.airdrops[0].Equals(ata) {
		t.Fatalf("expected faucet request against the wrapped account")
	}
	if got := len(client.sent[0].Message.Instructions); got != 1 {
		t.Fatalf("expected sync instruction only, got %d", got)
	}
}
