package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newAddCmd(serverURL *string) *cobra.Command {
	var serviceType, date string
	var mileage int64
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a maintenance record",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadBearer(cmd)
			if err != nil {
				return err
			}
			body := map[string]any{"serviceType": serviceType, "mileage": mileage, "date": date}
			b, _ := json.Marshal(body)
			req, _ := http.NewRequest("POST", *serverURL+"/add_record", bytes.NewReader(b))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("add failed: %s", resp.Status)
			}
			var rec map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
	cmd.Flags().StringVar(&serviceType, "service-type", "", "Type of service performed")
	cmd.Flags().Int64Var(&mileage, "mileage", 0, "Vehicle mileage at service time")
	cmd.Flags().StringVar(&date, "date", "", "Service date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("service-type")
	_ = cmd.MarkFlagRequired("mileage")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newListCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your maintenance records",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadBearer(cmd)
			if err != nil {
				return err
			}
			req, _ := http.NewRequest("GET", *serverURL+"/records", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("list failed: %s", resp.Status)
			}
			var items []map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		},
	}
}

func newDeleteCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a maintenance record you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := loadBearer(cmd)
			if err != nil {
				return err
			}
			req, _ := http.NewRequest("DELETE", *serverURL+"/records/"+args[0], nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("delete failed: %s", resp.Status)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}
