package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tournevent/bolplaza/pkg/bolplaza"
	"golang.org/x/sync/errgroup"
)

// withApp runs fn with an initialized app.
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())
		return fn(cmd, a, args)
	}
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List open orders",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		orders, err := a.client.GetOrders(cmd.Context())
		if err != nil {
			return err
		}

		tw := table(cmd.OutOrStdout())
		fmt.Fprintln(tw, "ORDER\tITEM\tEAN\tQTY\tPRICE\tCUSTOMER\tCITY")
		for _, o := range orders {
			for _, item := range o.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s %s\t%s\n",
					o.ID, item.OrderItemID, item.EAN, item.Quantity, item.OfferPrice.StringFixed(2),
					o.ShippingAddress.Firstname(), o.ShippingAddress.Surname(), o.ShippingAddress.City())
			}
		}
		return tw.Flush()
	}),
}

var returnsCmd = &cobra.Command{
	Use:   "returns",
	Short: "List unhandled returns",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		returns, err := a.client.GetReturns(cmd.Context())
		if err != nil {
			return err
		}

		tw := table(cmd.OutOrStdout())
		fmt.Fprintln(tw, "RETURN\tORDER\tEAN\tQTY\tREASON\tCUSTOMER")
		for _, r := range returns {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
				r.ReturnNumber, r.OrderID, r.EAN, r.Quantity, r.ReturnReason, r.CustomerDetails.Firstname())
		}
		return tw.Flush()
	}),
}

var shipFlags struct {
	carrier string
	track   string
}

var shipCmd = &cobra.Command{
	Use:   "ship ORDER_ID",
	Short: "Confirm the shipment of every item of an order",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		ctx := cmd.Context()
		carrier := bolplaza.Transporter(strings.ToUpper(shipFlags.carrier))

		order, err := a.client.GetOrder(ctx, args[0])
		if err != nil {
			return err
		}

		estimateFor := carrier
		if estimateFor == "" {
			estimateFor = "OTHER"
		}
		expected, err := a.client.Planner().Estimate(estimateFor, time.Now())
		if err != nil {
			return err
		}

		responses, err := order.Ship(ctx, expected, carrier, shipFlags.track)
		if err != nil {
			return err
		}
		for i, resp := range responses {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: status %d, process %s\n",
				order.Items[i].OrderItemID, resp.StatusCode, resp.Tree.String("id"))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "expected delivery %s\n", expected.Format(time.RFC1123))
		return nil
	}),
}

var cancelReason string

var cancelCmd = &cobra.Command{
	Use:   "cancel ORDER_ITEM_ID",
	Short: "Cancel an order item",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		resp, err := a.client.CancelOrderItem(cmd.Context(), args[0], bolplaza.CancellationReason(cancelReason))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "status %d\n", resp.StatusCode)
		return nil
	}),
}

var offersCmd = &cobra.Command{
	Use:   "offers",
	Short: "Export and list all offers",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		offers, err := a.client.GetOffers(cmd.Context())
		if err != nil {
			return err
		}

		tw := table(cmd.OutOrStdout())
		fmt.Fprintln(tw, "EAN\tREFERENCE\tSTOCK\tPRICE\tPUBLISHED")
		for _, o := range offers {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%t\n",
				o.String("EAN"), o.String("Reference"), o.Int("Stock"), o.Float("Price"), o.Bool("Published"))
		}
		return tw.Flush()
	}),
}

var stockCmd = &cobra.Command{
	Use:   "stock OFFER_ID QUANTITY",
	Short: "Update the stock of an offer",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity: %w", err)
		}

		accepted, err := a.client.UpdateOfferStock(cmd.Context(), args[0], quantity)
		if err != nil {
			return err
		}
		if !accepted {
			return fmt.Errorf("stock update for %s not accepted", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), "accepted")
		return nil
	}),
}

var deliveryFlags struct {
	carrier      string
	cutoff       string
	deliveryTime string
}

var deliveryDateCmd = &cobra.Command{
	Use:   "delivery-date",
	Short: "Estimate the delivery date of an order placed now",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		var (
			date time.Time
			err  error
		)
		if deliveryFlags.carrier != "" {
			date, err = a.client.Planner().Estimate(bolplaza.Transporter(strings.ToUpper(deliveryFlags.carrier)), time.Now())
		} else {
			date, err = a.client.NextDeliveryDate(bolplaza.DeliveryOptions{
				Cutoff:       deliveryFlags.cutoff,
				DeliveryTime: deliveryFlags.deliveryTime,
			})
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), date.Format(time.RFC1123))
		return nil
	}),
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Summarize open orders, returns and offers",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
		var (
			orders  []*bolplaza.Order
			returns []*bolplaza.Return
			offers  []bolplaza.Record
		)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() (err error) {
			orders, err = a.client.GetOrders(ctx)
			return err
		})
		g.Go(func() (err error) {
			returns, err = a.client.GetReturns(ctx)
			return err
		})
		g.Go(func() (err error) {
			offers, err = a.client.GetOffers(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		items, cancelRequests := 0, 0
		for _, o := range orders {
			for _, item := range o.Items {
				items++
				if item.CancelRequest {
					cancelRequests++
				}
			}
		}
		published := 0
		for _, o := range offers {
			if o.Bool("Published") {
				published++
			}
		}

		tw := table(cmd.OutOrStdout())
		fmt.Fprintf(tw, "open orders\t%d\n", len(orders))
		fmt.Fprintf(tw, "order items\t%d\n", items)
		fmt.Fprintf(tw, "cancel requests\t%d\n", cancelRequests)
		fmt.Fprintf(tw, "unhandled returns\t%d\n", len(returns))
		fmt.Fprintf(tw, "offers\t%d (%d published)\n", len(offers), published)
		return tw.Flush()
	}),
}

func init() {
	shipCmd.Flags().StringVar(&shipFlags.carrier, "carrier", "", "transporter code, e.g. TNT or DHL")
	shipCmd.Flags().StringVar(&shipFlags.track, "track", "", "track and trace code")

	cancelCmd.Flags().StringVar(&cancelReason, "reason", string(bolplaza.CancellationReasons[0]), "cancellation reason")

	deliveryDateCmd.Flags().StringVar(&deliveryFlags.carrier, "carrier", "", "estimate with the delivery week of this transporter")
	deliveryDateCmd.Flags().StringVar(&deliveryFlags.cutoff, "cutoff", "18:00", "last dispatch time of the day")
	deliveryDateCmd.Flags().StringVar(&deliveryFlags.deliveryTime, "time", "12:00", "time of day of the estimate")
}
