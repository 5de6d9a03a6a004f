// Package portfolio tracks a portfolio of dividend paying stocks.
//
// A Ledger holds the registered stocks, the list of buy, sell and dividend
// transactions and the user options. Nothing derived is stored: a Portfolio
// is rebuilt from the transactions in chronological order every time it is
// needed, giving for each stock a Position with its cost basis, market
// value, realized result and dividend income.
//
// Amounts are exact decimals: Money in the reporting currency, Quantity for
// share counts and Percent for ratios, where P(4.5) means 4.5%.
//
// PeriodicResults and OverallResults replay the ledger day by day to report
// the average cost basis and the income of each calendar period. Analyze
// scores a stock on its long term price history.
//
// Persistence is behind the Store interface, see the store package, and
// market data behind Quoter, see the quote package.
package portfolio
