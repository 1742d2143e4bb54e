// Package mailhog provides a Go client for the Mailhog message API, a
// disposable SMTP inbox used to assert on outgoing email in test suites.
//
// The client lists captured messages across server pages, fetches bodies
// and metadata, filters messages with caller-supplied specifications,
// deletes or purges messages, and asks the server to release a message to
// a real SMTP host.
//
// Basic usage:
//
//	client, err := mailhog.New("http://localhost:8025")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Find every message sent to a given recipient
//	messages, err := client.FindMessagesSatisfying(ctx, mailhog.SentTo("jane@example.com"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, m := range messages {
//	    fmt.Println("Subject:", m.Subject)
//	}
//
// Listing is lazy. [Client.Messages] returns a [MessageIterator] that only
// requests pages and message bodies as they are consumed:
//
//	it := client.Messages()
//	for {
//	    m, err := it.Next(ctx)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(m.ID, m.Subject)
//	}
package mailhog
