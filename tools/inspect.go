// Inspect dumps a collection from a chatkit Badger store as a table.
// Opens read-only with the lock guard bypassed so it can run next to a
// live process.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	collection := flag.String("collection", "Channels", "Collection to scan (Channels, Messages, Users)")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.Cyan.Printf("== %s ==\n", *collection)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Author/Sender", "Users", "Created/Sent", "Text"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	prefix := []byte(*collection + "/")
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := strings.TrimPrefix(string(item.Key()), *collection+"/")

			err := item.Value(func(v []byte) error {
				var doc map[string]any
				if err := json.Unmarshal(v, &doc); err != nil {
					fmt.Printf("Error unmarshaling key %s: %v\n", key, err)
					return nil
				}
				table.Append([]string{
					key,
					firstString(doc, "author", "senderUID"),
					joined(doc, "users"),
					stamp(doc, "created", "timestamp"),
					firstString(doc, "text", "lastText", "email"),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Scan failed: ", err)
	}

	table.Render()
}

func firstString(doc map[string]any, fields ...string) string {
	for _, field := range fields {
		if s, ok := doc[field].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func joined(doc map[string]any, field string) string {
	array, ok := doc[field].([]any)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(array))
	for _, item := range array {
		if s, ok := item.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func stamp(doc map[string]any, fields ...string) string {
	for _, field := range fields {
		if f, ok := doc[field].(float64); ok {
			return time.Unix(int64(f), 0).UTC().Format(time.RFC822)
		}
	}
	return ""
}
