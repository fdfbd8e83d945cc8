package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/Axio-Lab/verxioprotocol-sub000/config"
	"github.com/Axio-Lab/verxioprotocol-sub000/core"
	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
	"github.com/Axio-Lab/verxioprotocol-sub000/crypto"
	"github.com/Axio-Lab/verxioprotocol-sub000/ledger"
	"github.com/Axio-Lab/verxioprotocol-sub000/native/fees"
	"github.com/Axio-Lab/verxioprotocol-sub000/native/voucher"
	"github.com/Axio-Lab/verxioprotocol-sub000/observability/logging"
	"github.com/Axio-Lab/verxioprotocol-sub000/storage"
)

const defaultKeyFile = "wallet.key"

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		printUsage()
		return
	}

	switch args[0] {
	case "generate-key":
		generateKey()
	case "create-program":
		requireArgs(args, 3, "create-program <name> <key-file>")
		withProtocol(func(ctx *cliContext) error {
			return createProgram(ctx, args[1], args[2])
		})
	case "issue-pass":
		requireArgs(args, 4, "issue-pass <program-id> <owner-address> <key-file>")
		withProtocol(func(ctx *cliContext) error {
			return issuePass(ctx, args[1], args[2], args[3])
		})
	case "award":
		requireArgs(args, 4, "award <pass-id> <action> <key-file>")
		withProtocol(func(ctx *cliContext) error {
			return awardPoints(ctx, args[1], args[2], args[3])
		})
	case "revoke":
		requireArgs(args, 4, "revoke <pass-id> <points> <key-file>")
		withProtocol(func(ctx *cliContext) error {
			return revokePoints(ctx, args[1], args[2], args[3])
		})
	case "gift":
		requireArgs(args, 5, "gift <pass-id> <points> <reason> <key-file>")
		withProtocol(func(ctx *cliContext) error {
			return giftPoints(ctx, args[1], args[2], args[3], args[4])
		})
	case "create-collection":
		requireArgs(args, 4, "create-collection <name> <merchant> <key-file>")
		withProtocol(func(ctx *cliContext) error {
			return createCollection(ctx, args[1], args[2], args[3])
		})
	case "mint-voucher":
		requireArgs(args, 7, "mint-voucher <collection-id> <name> <type> <value> <expires-unix> <key-file>")
		withProtocol(func(ctx *cliContext) error {
			return mintVoucher(ctx, args[1], args[2], args[3], args[4], args[5], args[6])
		})
	case "redeem":
		requireArgs(args, 5, "redeem <voucher-id> <merchant> <purchase-amount> <key-file>")
		withProtocol(func(ctx *cliContext) error {
			return redeemVoucher(ctx, args[1], args[2], args[3], args[4])
		})
	case "cancel-voucher":
		requireArgs(args, 3, "cancel-voucher <voucher-id> <key-file>")
		withProtocol(func(ctx *cliContext) error {
			return cancelVoucher(ctx, args[1], args[2])
		})
	case "extend-voucher":
		requireArgs(args, 4, "extend-voucher <voucher-id> <new-expiry-unix> <key-file>")
		withProtocol(func(ctx *cliContext) error {
			return extendVoucher(ctx, args[1], args[2], args[3])
		})
	case "show-program":
		requireArgs(args, 2, "show-program <program-id>")
		withProtocol(func(ctx *cliContext) error {
			return showProgram(ctx, args[1])
		})
	case "show-pass":
		requireArgs(args, 2, "show-pass <pass-id>")
		withProtocol(func(ctx *cliContext) error {
			return showPass(ctx, args[1])
		})
	case "show-voucher":
		requireArgs(args, 2, "show-voucher <voucher-id>")
		withProtocol(func(ctx *cliContext) error {
			return showVoucher(ctx, args[1])
		})
	case "fee-total":
		requireArgs(args, 2, "fee-total <category>")
		withProtocol(func(ctx *cliContext) error {
			return feeTotal(ctx, args[1])
		})
	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

type cliContext struct {
	protocol *core.Protocol
	client   *ledger.LocalClient
}

func withProtocol(run func(*cliContext) error) {
	cfg := loadConfig()
	log := logging.Setup(cfg.Logging.Service, cfg.Logging.Env)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		fatalf("open data dir %s: %v", cfg.DataDir, err)
	}
	defer db.Close()

	schedule, treasury, err := cfg.FeeSchedule()
	if err != nil {
		fatalf("fee schedule: %v", err)
	}

	client := ledger.NewLocalClient(db, cfg.Submission.RatePerSecond, cfg.Submission.Burst)
	protocol := core.New(client,
		core.WithLogger(log),
		core.WithFeeComposer(fees.NewComposer(schedule, treasury)),
	)
	if err := run(&cliContext{protocol: protocol, client: client}); err != nil {
		fatalf("%v", err)
	}
}

func loadConfig() *config.Config {
	path := os.Getenv("VERXIO_CONFIG")
	if path == "" {
		path = "config.toml"
	}
	if _, err := os.Stat(path); err != nil {
		cfg := (&config.Config{}).ApplyDefaults()
		return cfg
	}
	cfg, err := config.Load(path)
	if err != nil {
		fatalf("load config: %v", err)
	}
	return cfg
}

func generateKey() {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		fatalf("generate key: %v", err)
	}
	if err := os.WriteFile(defaultKeyFile, key.Bytes(), 0o600); err != nil {
		fatalf("save key to %s: %v", defaultKeyFile, err)
	}
	fmt.Printf("Generated new key and saved to %s\n", defaultKeyFile)
	fmt.Printf("Your address is: %s\n", key.PubKey().Address().String())
}

func createProgram(ctx *cliContext, name, keyFile string) error {
	signer, err := loadKey(keyFile)
	if err != nil {
		return err
	}
	res, err := ctx.protocol.CreateProgram(context.Background(), core.CreateProgramConfig{
		Name:            name,
		PointsPerAction: map[string]int64{"purchase": 100, "review": 50, "referral": 200},
		Signer:          signer,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Program created: %s\n", hex.EncodeToString(res.Program.ID[:]))
	fmt.Printf("Confirmation: %s (version %d)\n", res.Confirmation.Hex(), res.Confirmation.Version)
	return nil
}

func issuePass(ctx *cliContext, programID, ownerAddr, keyFile string) error {
	signer, err := loadKey(keyFile)
	if err != nil {
		return err
	}
	program, err := parseID(programID)
	if err != nil {
		return err
	}
	owner, err := crypto.DecodeAddress(ownerAddr)
	if err != nil {
		return fmt.Errorf("owner address: %w", err)
	}
	res, err := ctx.protocol.IssuePass(context.Background(), core.IssuePassConfig{
		Program: program,
		Owner:   owner.Array(),
		Signer:  signer,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Pass issued: %s (tier %s)\n", hex.EncodeToString(res.Pass.ID[:]), res.Pass.CurrentTier)
	return nil
}

func awardPoints(ctx *cliContext, passID, action, keyFile string) error {
	signer, err := loadKey(keyFile)
	if err != nil {
		return err
	}
	pass, err := parseID(passID)
	if err != nil {
		return err
	}
	res, err := ctx.protocol.AwardPoints(context.Background(), core.AwardPointsConfig{
		Pass:   pass,
		Action: action,
		Signer: signer,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Awarded %d points for %s. XP: %d, tier: %s\n", res.Points, action, res.Pass.XP, res.NewTier)
	if res.TierChanged {
		fmt.Printf("Tier changed: %s -> %s\n", res.PreviousTier, res.NewTier)
	}
	return nil
}

func revokePoints(ctx *cliContext, passID, pointsArg, keyFile string) error {
	signer, err := loadKey(keyFile)
	if err != nil {
		return err
	}
	pass, err := parseID(passID)
	if err != nil {
		return err
	}
	points, err := strconv.ParseInt(pointsArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid points amount: %s", pointsArg)
	}
	res, err := ctx.protocol.RevokePoints(context.Background(), core.RevokePointsConfig{
		Pass:   pass,
		Points: points,
		Signer: signer,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Revoked %d points. XP: %d, tier: %s\n", res.Points, res.Pass.XP, res.NewTier)
	return nil
}

func giftPoints(ctx *cliContext, passID, pointsArg, reason, keyFile string) error {
	signer, err := loadKey(keyFile)
	if err != nil {
		return err
	}
	pass, err := parseID(passID)
	if err != nil {
		return err
	}
	points, err := strconv.ParseInt(pointsArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid points amount: %s", pointsArg)
	}
	res, err := ctx.protocol.GiftPoints(context.Background(), core.GiftPointsConfig{
		Pass:   pass,
		Points: points,
		Reason: reason,
		Signer: signer,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Gifted %d points (%s). XP: %d, tier: %s\n", res.Points, reason, res.Pass.XP, res.NewTier)
	return nil
}

func createCollection(ctx *cliContext, name, merchant, keyFile string) error {
	signer, err := loadKey(keyFile)
	if err != nil {
		return err
	}
	res, err := ctx.protocol.CreateVoucherCollection(context.Background(), core.CreateVoucherCollectionConfig{
		Name:     name,
		Merchant: merchant,
		Signer:   signer,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Collection created: %s (merchant %s)\n", hex.EncodeToString(res.Collection.ID[:]), merchant)
	return nil
}

func mintVoucher(ctx *cliContext, collectionID, name, kind, valueArg, expiresArg, keyFile string) error {
	signer, err := loadKey(keyFile)
	if err != nil {
		return err
	}
	collection, err := parseID(collectionID)
	if err != nil {
		return err
	}
	value, ok := new(big.Int).SetString(valueArg, 10)
	if !ok {
		return fmt.Errorf("invalid voucher value: %s", valueArg)
	}
	expires, err := strconv.ParseInt(expiresArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expiry timestamp: %s", expiresArg)
	}
	authority := signer.PubKey().Address().Array()
	res, err := ctx.protocol.MintVoucher(context.Background(), core.MintVoucherConfig{
		Collection: collection,
		Recipient:  authority,
		Name:       name,
		Kind:       kind,
		Value:      value,
		ExpiresAt:  expires,
		MaxUses:    1,
		Signer:     signer,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Voucher minted: %s (%s, merchant %s)\n", hex.EncodeToString(res.Voucher.ID[:]), kind, res.Voucher.Merchant)
	return nil
}

func redeemVoucher(ctx *cliContext, voucherID, merchant, amountArg, keyFile string) error {
	signer, err := loadKey(keyFile)
	if err != nil {
		return err
	}
	id, err := parseID(voucherID)
	if err != nil {
		return err
	}
	amount, ok := new(big.Int).SetString(amountArg, 10)
	if !ok {
		return fmt.Errorf("invalid purchase amount: %s", amountArg)
	}
	res, err := ctx.protocol.RedeemVoucher(context.Background(), core.RedeemVoucherConfig{
		Voucher:  id,
		Merchant: merchant,
		Context:  &voucher.RedemptionContext{PurchaseAmount: amount},
		Signer:   signer,
	})
	if err != nil {
		return err
	}
	if !res.Success {
		fmt.Println("Redemption rejected:")
		for _, msg := range res.Errors {
			fmt.Printf("  - %s\n", msg)
		}
		os.Exit(1)
	}
	fmt.Printf("Redeemed for value %s. Uses: %d/%d, status: %s\n",
		res.RedemptionValue, res.Voucher.CurrentUses, res.Voucher.MaxUses, res.Voucher.Status)
	for _, warning := range res.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
	return nil
}

func cancelVoucher(ctx *cliContext, voucherID, keyFile string) error {
	signer, err := loadKey(keyFile)
	if err != nil {
		return err
	}
	id, err := parseID(voucherID)
	if err != nil {
		return err
	}
	res, err := ctx.protocol.CancelVoucher(context.Background(), id, signer)
	if err != nil {
		return err
	}
	if !res.Success {
		fmt.Println("Cancellation rejected:")
		for _, msg := range res.Errors {
			fmt.Printf("  - %s\n", msg)
		}
		os.Exit(1)
	}
	fmt.Println("Voucher cancelled.")
	return nil
}

func extendVoucher(ctx *cliContext, voucherID, expiryArg, keyFile string) error {
	signer, err := loadKey(keyFile)
	if err != nil {
		return err
	}
	id, err := parseID(voucherID)
	if err != nil {
		return err
	}
	expiry, err := strconv.ParseInt(expiryArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expiry timestamp: %s", expiryArg)
	}
	res, err := ctx.protocol.ExtendVoucherExpiry(context.Background(), id, expiry, signer)
	if err != nil {
		return err
	}
	if !res.Success {
		fmt.Println("Extension rejected:")
		for _, msg := range res.Errors {
			fmt.Printf("  - %s\n", msg)
		}
		os.Exit(1)
	}
	fmt.Printf("Expiry extended to %d.\n", expiry)
	if res.Voucher.Status == types.VoucherActive {
		fmt.Println("Voucher is active.")
	}
	return nil
}

func showProgram(ctx *cliContext, programID string) error {
	id, err := parseID(programID)
	if err != nil {
		return err
	}
	program, err := ctx.client.ProgramRecord(context.Background(), id)
	if err != nil {
		return err
	}
	return printJSON(program)
}

func showPass(ctx *cliContext, passID string) error {
	id, err := parseID(passID)
	if err != nil {
		return err
	}
	pass, err := ctx.client.PassRecord(context.Background(), id)
	if err != nil {
		return err
	}
	return printJSON(pass)
}

func showVoucher(ctx *cliContext, voucherID string) error {
	id, err := parseID(voucherID)
	if err != nil {
		return err
	}
	v, err := ctx.client.VoucherRecord(context.Background(), id)
	if err != nil {
		return err
	}
	return printJSON(v)
}

func feeTotal(ctx *cliContext, category string) error {
	total, err := ctx.client.FeeTotal(string(fees.NormalizeCategory(category)))
	if err != nil {
		return err
	}
	fmt.Printf("Collected %s fees: %s\n", category, total)
	return nil
}

func loadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file %s: %w", path, err)
	}
	key, err := crypto.PrivateKeyFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse key file %s: %w", path, err)
	}
	return key, nil
}

func parseID(arg string) ([32]byte, error) {
	var id [32]byte
	raw, err := hex.DecodeString(arg)
	if err != nil || len(raw) != 32 {
		return id, fmt.Errorf("invalid identifier %q: want 64 hex characters", arg)
	}
	copy(id[:], raw)
	return id, nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func requireArgs(args []string, n int, usage string) {
	if len(args) < n {
		fmt.Printf("Usage: verxio-cli %s\n", usage)
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Println("Usage: verxio-cli <command> [arguments]")
	fmt.Println("Reads config.toml from the working directory (override with VERXIO_CONFIG).")
	fmt.Println("Commands:")
	fmt.Println("  generate-key                                              - Generate a key and save to wallet.key")
	fmt.Println("  create-program <name> <key-file>                          - Create a loyalty program")
	fmt.Println("  issue-pass <program-id> <owner-address> <key-file>        - Issue a pass to a user")
	fmt.Println("  award <pass-id> <action> <key-file>                       - Award points for an action")
	fmt.Println("  revoke <pass-id> <points> <key-file>                      - Revoke points")
	fmt.Println("  gift <pass-id> <points> <reason> <key-file>               - Gift points")
	fmt.Println("  create-collection <name> <merchant> <key-file>            - Create a voucher collection")
	fmt.Println("  mint-voucher <collection-id> <name> <type> <value> <expires-unix> <key-file>")
	fmt.Println("  redeem <voucher-id> <merchant> <purchase-amount> <key-file>")
	fmt.Println("  cancel-voucher <voucher-id> <key-file>                    - Cancel a voucher")
	fmt.Println("  extend-voucher <voucher-id> <new-expiry-unix> <key-file>  - Extend a voucher's expiry")
	fmt.Println("  show-program <program-id>                                 - Print a program record")
	fmt.Println("  show-pass <pass-id>                                       - Print a pass record")
	fmt.Println("  show-voucher <voucher-id>                                 - Print a voucher record")
	fmt.Println("  fee-total <category>                                      - Print collected fees for a category")
}
