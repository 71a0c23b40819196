package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"dm-go/internal/app"
	"dm-go/internal/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a MarketApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Mint", "ExecutePurchase").
func newApp(operation string) (*app.MarketApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewMarketApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// caller returns the identity acting in this command: the --as flag when
// set, otherwise the configured operator.
func caller(cmd *cobra.Command, a *app.MarketApp) string {
	as, _ := cmd.Flags().GetString("as")
	if as != "" {
		return as
	}
	return a.Operator()
}

// fail marks the operation record as failed before returning the error.
func fail(a *app.MarketApp, err error) error {
	a.SetStatus("error")
	return err
}

// readPassphrase prompts for a passphrase without echoing it.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(data), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid dataset id %q", s)
	}
	return id, nil
}

var rootCmd = &cobra.Command{
	Use:   "dm",
	Short: "Decentralized data marketplace ledger",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		operator, _ := cmd.Flags().GetString("operator")

		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Generate a new host ID
		hostID := uuid.New().String()

		// Create config with defaults
		cfg := config.NewConfig(hostID, operator, defaults["base_dir"])

		// Initialize config file
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID:  %s\n", hostID)
		fmt.Printf("Operator: %s\n", operator)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Read config
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		// Display config
		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Host ID:  %s\n", cfg.HostID)
		fmt.Printf("Operator: %s\n", cfg.Operator)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:  %s\n", cfg.LogDir)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a new key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetupKeys")
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase, err := readPassphrase("Passphrase for private key: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err := a.SetupKeys(passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Println("Key pair generated.")
		return nil
	},
}

// dataset command
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage datasets",
}

var datasetMintCmd = &cobra.Command{
	Use:   "mint CONTENT_REF",
	Short: "Register a new dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		creator, _ := cmd.Flags().GetString("creator")
		price, _ := cmd.Flags().GetInt64("price")
		policy, _ := cmd.Flags().GetString("policy")
		supply, _ := cmd.Flags().GetInt64("supply")
		encrypted, _ := cmd.Flags().GetBool("encrypted")

		a, err := newApp("Mint")
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.Mint(caller(cmd, a), creator, args[0], name, description, price, policy, supply, encrypted)
		if err != nil {
			return fail(a, fmt.Errorf("minting dataset: %w", err))
		}

		fmt.Printf("Dataset %d minted\n", id)
		return nil
	},
}

var datasetUpdateCmd = &cobra.Command{
	Use:   "update DATASET_ID",
	Short: "Update dataset price and access policy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, _ := cmd.Flags().GetInt64("price")
		policy, _ := cmd.Flags().GetString("policy")

		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("UpdateDataset")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.UpdateDataset(caller(cmd, a), id, price, policy); err != nil {
			return fail(a, fmt.Errorf("updating dataset: %w", err))
		}

		fmt.Printf("Dataset %d updated\n", id)
		return nil
	},
}

var datasetDeactivateCmd = &cobra.Command{
	Use:   "deactivate DATASET_ID",
	Short: "Deactivate a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("DeactivateDataset")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeactivateDataset(caller(cmd, a), id); err != nil {
			return fail(a, fmt.Errorf("deactivating dataset: %w", err))
		}

		fmt.Printf("Dataset %d deactivated\n", id)
		return nil
	},
}

var datasetShowCmd = &cobra.Command{
	Use:   "show DATASET_ID",
	Short: "View a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("GetDataset")
		if err != nil {
			return err
		}
		defer a.Close()

		ds, err := a.GetDataset(id)
		if err != nil {
			return err
		}

		status := "active"
		if !ds.Active {
			status = "inactive"
		}
		supply := "unique"
		if ds.TotalSupply > 0 {
			supply = fmt.Sprintf("%d/%d sold", ds.SoldSupply, ds.TotalSupply)
		}
		fmt.Printf("Dataset #%d  %s\n", ds.ID, ds.Name)
		fmt.Printf("  creator:     %s\n", ds.Creator)
		fmt.Printf("  content:     %s\n", ds.ContentRef)
		fmt.Printf("  price:       %d\n", ds.UnitPrice)
		fmt.Printf("  supply:      %s\n", supply)
		fmt.Printf("  status:      %s\n", status)
		fmt.Printf("  encrypted:   %t\n", ds.Encrypted)
		if ds.AccessPolicy != "" {
			fmt.Printf("  policy:      %s\n", ds.AccessPolicy)
		}
		if ds.Description != "" {
			fmt.Printf("  description: %s\n", ds.Description)
		}
		return nil
	},
}

var datasetSalesCmd = &cobra.Command{
	Use:   "sales DATASET_ID",
	Short: "View cumulative sales for a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("GetSales")
		if err != nil {
			return err
		}
		defer a.Close()

		sold, err := a.GetSales(id)
		if err != nil {
			return err
		}

		fmt.Printf("Dataset %d: %d unit(s) sold\n", id, sold)
		return nil
	},
}

// content command
var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage dataset payloads",
}

var contentPutCmd = &cobra.Command{
	Use:   "put FILE",
	Short: "Store a payload and print its content reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		a, err := newApp("PutContent")
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening payload: %w", err)
		}
		defer f.Close()

		ref, err := a.PutContent(f, encrypt)
		if err != nil {
			return fmt.Errorf("storing content: %w", err)
		}

		fmt.Println(ref)
		return nil
	},
}

var contentGetCmd = &cobra.Command{
	Use:   "get CONTENT_REF FILE",
	Short: "Retrieve a payload by content reference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		decrypt, _ := cmd.Flags().GetBool("decrypt")

		a, err := newApp("GetContent")
		if err != nil {
			return err
		}
		defer a.Close()

		passphrase := ""
		if decrypt {
			passphrase, err = readPassphrase("Passphrase for private key: ")
			if err != nil {
				return err
			}
		}

		out, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer out.Close()

		if err := a.GetContent(args[0], out, passphrase); err != nil {
			return fmt.Errorf("retrieving content: %w", err)
		}

		fmt.Printf("Wrote %s\n", args[1])
		return nil
	},
}

// buy command
var buyCmd = &cobra.Command{
	Use:   "buy DATASET_ID QUANTITY",
	Short: "Purchase dataset units",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		quantity, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}

		a, err := newApp("ExecutePurchase")
		if err != nil {
			return err
		}
		defer a.Close()

		purchaseID, err := a.ExecutePurchase(caller(cmd, a), id, quantity)
		if err != nil {
			return fail(a, fmt.Errorf("purchase failed: %w", err))
		}

		p, err := a.GetPurchase(purchaseID)
		if err != nil {
			return err
		}

		fmt.Printf("Purchase %s recorded\n", purchaseID)
		fmt.Printf("Access token: %s\n", p.AccessToken)
		return nil
	},
}

// purchase command
var purchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "Inspect purchases",
}

var purchaseShowCmd = &cobra.Command{
	Use:   "show PURCHASE_ID",
	Short: "View a purchase record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetPurchase")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.GetPurchase(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Purchase %s\n", p.ID)
		fmt.Printf("  dataset:  %d\n", p.DatasetID)
		fmt.Printf("  buyer:    %s\n", p.Buyer)
		fmt.Printf("  quantity: %d\n", p.Quantity)
		fmt.Printf("  price:    %d\n", p.UnitPrice)
		fmt.Printf("  fee:      %d\n", p.PlatformFee)
		fmt.Printf("  at:       %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var purchaseVerifyCmd = &cobra.Command{
	Use:   "verify PURCHASE_ID TOKEN",
	Short: "Verify an access token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("VerifyAccessToken")
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := a.VerifyAccessToken(args[0], args[1])
		if err != nil {
			return err
		}

		if ok {
			fmt.Println("Token valid")
			return nil
		}
		fmt.Println("Token invalid or expired")
		os.Exit(1)
		return nil
	},
}

var purchaseListCmd = &cobra.Command{
	Use:   "list BUYER",
	Short: "List a buyer's purchases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetBuyerPurchases")
		if err != nil {
			return err
		}
		defer a.Close()

		purchases, err := a.GetBuyerPurchases(args[0])
		if err != nil {
			return err
		}

		if len(purchases) == 0 {
			fmt.Println("No purchases recorded.")
			return nil
		}

		for _, p := range purchases {
			fmt.Printf("%s  dataset:%d  qty:%d  fee:%d  %s\n",
				p.ID, p.DatasetID, p.Quantity, p.PlatformFee,
				p.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

// intent command
var intentCmd = &cobra.Command{
	Use:   "intent",
	Short: "Manage cross-chain intents",
}

var intentCreateCmd = &cobra.Command{
	Use:   "create DATASET_ID QUANTITY SOURCE_CHAIN DEST_CHAIN",
	Short: "Declare a cross-chain purchase intent",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var vals [4]int64
		for i, arg := range args {
			v, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid argument %q", arg)
			}
			vals[i] = v
		}

		a, err := newApp("CreateIntent")
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.CreateIntent(caller(cmd, a), vals[0], vals[1], vals[2], vals[3])
		if err != nil {
			return fail(a, fmt.Errorf("creating intent: %w", err))
		}

		fmt.Printf("Intent %s created\n", id)
		return nil
	},
}

var intentExecuteCmd = &cobra.Command{
	Use:   "execute INTENT_ID PROOF_REF",
	Short: "Execute an intent against a verified proof",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ExecuteIntent")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ExecuteIntent(caller(cmd, a), args[0], args[1]); err != nil {
			return fail(a, fmt.Errorf("executing intent: %w", err))
		}

		fmt.Printf("Intent %s executed\n", args[0])
		return nil
	},
}

var intentSettleCmd = &cobra.Command{
	Use:   "settle INTENT_ID PROOF_REF",
	Short: "Settle an executed intent against a verified proof",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SettleIntent")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SettleIntent(caller(cmd, a), args[0], args[1]); err != nil {
			return fail(a, fmt.Errorf("settling intent: %w", err))
		}

		fmt.Printf("Intent %s settled\n", args[0])
		return nil
	},
}

var intentShowCmd = &cobra.Command{
	Use:   "show INTENT_ID",
	Short: "View an intent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetIntent")
		if err != nil {
			return err
		}
		defer a.Close()

		in, err := a.GetIntent(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Intent %s  [%s]\n", in.ID, in.Status())
		fmt.Printf("  buyer:    %s\n", in.Buyer)
		fmt.Printf("  dataset:  %d\n", in.DatasetID)
		fmt.Printf("  quantity: %d\n", in.Quantity)
		fmt.Printf("  route:    %d -> %d\n", in.SourceChain, in.DestinationChain)
		fmt.Printf("  amount:   %d\n", in.Amount)
		if in.ExecutedAt != nil {
			fmt.Printf("  executed: %s\n", in.ExecutedAt.Format("2006-01-02 15:04:05"))
		}
		if in.PurchaseID != "" {
			fmt.Printf("  purchase: %s\n", in.PurchaseID)
		}
		return nil
	},
}

var intentListCmd = &cobra.Command{
	Use:   "list BUYER",
	Short: "List a buyer's intents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetBuyerIntents")
		if err != nil {
			return err
		}
		defer a.Close()

		intents, err := a.GetBuyerIntents(args[0])
		if err != nil {
			return err
		}

		if len(intents) == 0 {
			fmt.Println("No intents recorded.")
			return nil
		}

		for _, in := range intents {
			fmt.Printf("%s  dataset:%d  %d->%d  amount:%d  [%s]\n",
				in.ID, in.DatasetID, in.SourceChain, in.DestinationChain, in.Amount, in.Status())
		}
		return nil
	},
}

// proof command
var proofCmd = &cobra.Command{
	Use:   "proof",
	Short: "Manage proof verdicts",
}

var proofVerifyCmd = &cobra.Command{
	Use:   "verify PROOF_REF",
	Short: "Record a proof verdict",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		invalid, _ := cmd.Flags().GetBool("invalid")

		a, err := newApp("VerifyProof")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.VerifyProof(caller(cmd, a), args[0], !invalid); err != nil {
			return fail(a, fmt.Errorf("recording proof: %w", err))
		}

		fmt.Printf("Proof %s recorded (valid=%t)\n", args[0], !invalid)
		return nil
	},
}

// chain command
var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Manage the supported chain set",
}

var chainEnableCmd = &cobra.Command{
	Use:   "enable CHAIN_ID",
	Short: "Mark a chain as supported",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setChain(cmd, args[0], true) },
}

var chainDisableCmd = &cobra.Command{
	Use:   "disable CHAIN_ID",
	Short: "Mark a chain as unsupported",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setChain(cmd, args[0], false) },
}

func setChain(cmd *cobra.Command, arg string, supported bool) error {
	chainID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chain id %q", arg)
	}

	a, err := newApp("SetChainSupport")
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.SetChainSupport(caller(cmd, a), chainID, supported); err != nil {
		return fail(a, fmt.Errorf("updating chain support: %w", err))
	}

	fmt.Printf("Chain %d supported=%t\n", chainID, supported)
	return nil
}

var chainListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chain policy entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListChains")
		if err != nil {
			return err
		}
		defer a.Close()

		chains, err := a.ListChains()
		if err != nil {
			return err
		}

		for _, c := range chains {
			fmt.Printf("%d  supported=%t  %s\n", c.ID, c.Supported, c.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

// admin command
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Operator administration",
}

var adminFeeCmd = &cobra.Command{
	Use:   "fee [BPS]",
	Short: "View or set the platform fee",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			a, err := newApp("GetFee")
			if err != nil {
				return err
			}
			defer a.Close()

			bps, err := a.FeeBps()
			if err != nil {
				return err
			}
			paused, err := a.IsPaused()
			if err != nil {
				return err
			}
			fmt.Printf("Platform fee: %d bps\n", bps)
			if paused {
				fmt.Println("Purchases are paused")
			}
			return nil
		}

		bps, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid fee %q", args[0])
		}

		a, err := newApp("SetFee")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SetFee(caller(cmd, a), bps); err != nil {
			return fail(a, fmt.Errorf("setting fee: %w", err))
		}

		fmt.Printf("Platform fee set to %d bps\n", bps)
		return nil
	},
}

var adminWithdrawCmd = &cobra.Command{
	Use:   "withdraw ACCOUNT AMOUNT",
	Short: "Withdraw accumulated platform fees",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}

		a, err := newApp("WithdrawFees")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.WithdrawFees(caller(cmd, a), args[0], amount); err != nil {
			return fail(a, fmt.Errorf("withdrawing fees: %w", err))
		}

		fmt.Printf("Withdrew %d to %s\n", amount, args[0])
		return nil
	},
}

var adminPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause purchases",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Pause")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Pause(caller(cmd, a)); err != nil {
			return fail(a, fmt.Errorf("pausing: %w", err))
		}

		fmt.Println("Purchases paused")
		return nil
	},
}

var adminUnpauseCmd = &cobra.Command{
	Use:   "unpause",
	Short: "Re-enable purchases",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Unpause")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Unpause(caller(cmd, a)); err != nil {
			return fail(a, fmt.Errorf("unpausing: %w", err))
		}

		fmt.Println("Purchases enabled")
		return nil
	},
}

// account command
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage currency accounts",
}

var accountFundCmd = &cobra.Command{
	Use:   "fund ACCOUNT AMOUNT",
	Short: "Credit an account (development backends only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}

		a, err := newApp("FundAccount")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.FundAccount(args[0], amount); err != nil {
			return fmt.Errorf("funding account: %w", err)
		}

		fmt.Printf("Credited %d to %s\n", amount, args[0])
		return nil
	},
}

var accountBalanceCmd = &cobra.Command{
	Use:   "balance ACCOUNT",
	Short: "View an account balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Balance")
		if err != nil {
			return err
		}
		defer a.Close()

		balance, err := a.Balance(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d\n", args[0], balance)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View marketplace operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("GetHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.GetHistory(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No marketplace operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-18s  %s  %-10s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
			)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("as", "", "Identity acting in this command (default: configured operator)")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().String("operator", "operator", "Operator identity for administrative calls")
	configCmd.AddCommand(configListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)

	// dataset subcommands
	datasetCmd.AddCommand(datasetMintCmd)
	datasetMintCmd.Flags().String("name", "", "Dataset name")
	datasetMintCmd.Flags().String("description", "", "Dataset description")
	datasetMintCmd.Flags().String("creator", "", "Creator identity")
	datasetMintCmd.Flags().Int64("price", 0, "Unit price")
	datasetMintCmd.Flags().String("policy", "", "Access policy")
	datasetMintCmd.Flags().Int64("supply", 0, "Total supply (0 = unique item)")
	datasetMintCmd.Flags().Bool("encrypted", false, "Payload is stored encrypted")
	datasetCmd.AddCommand(datasetUpdateCmd)
	datasetUpdateCmd.Flags().Int64("price", 0, "New unit price")
	datasetUpdateCmd.Flags().String("policy", "", "New access policy")
	datasetCmd.AddCommand(datasetDeactivateCmd)
	datasetCmd.AddCommand(datasetShowCmd)
	datasetCmd.AddCommand(datasetSalesCmd)

	// content subcommands
	contentCmd.AddCommand(contentPutCmd)
	contentPutCmd.Flags().Bool("encrypt", false, "Encrypt the payload before storing")
	contentCmd.AddCommand(contentGetCmd)
	contentGetCmd.Flags().Bool("decrypt", false, "Decrypt the payload after retrieving")

	// purchase subcommands
	purchaseCmd.AddCommand(purchaseShowCmd)
	purchaseCmd.AddCommand(purchaseVerifyCmd)
	purchaseCmd.AddCommand(purchaseListCmd)

	// intent subcommands
	intentCmd.AddCommand(intentCreateCmd)
	intentCmd.AddCommand(intentExecuteCmd)
	intentCmd.AddCommand(intentSettleCmd)
	intentCmd.AddCommand(intentShowCmd)
	intentCmd.AddCommand(intentListCmd)

	// proof subcommands
	proofCmd.AddCommand(proofVerifyCmd)
	proofVerifyCmd.Flags().Bool("invalid", false, "Record the proof as invalid")

	// chain subcommands
	chainCmd.AddCommand(chainEnableCmd)
	chainCmd.AddCommand(chainDisableCmd)
	chainCmd.AddCommand(chainListCmd)

	// admin subcommands
	adminCmd.AddCommand(adminFeeCmd)
	adminCmd.AddCommand(adminWithdrawCmd)
	adminCmd.AddCommand(adminPauseCmd)
	adminCmd.AddCommand(adminUnpauseCmd)

	// account subcommands
	accountCmd.AddCommand(accountFundCmd)
	accountCmd.AddCommand(accountBalanceCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(purchaseCmd)
	rootCmd.AddCommand(intentCmd)
	rootCmd.AddCommand(proofCmd)
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
}
